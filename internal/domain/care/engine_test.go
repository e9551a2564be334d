package care

import (
	"testing"
	"time"

	"vet-care-reminders/internal/domain/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := calendar.LoadLocation(calendar.DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func newTestEngine(t *testing.T, now time.Time) *Engine {
	t.Helper()
	return NewEngine(calendar.New(istLocation(t), func() time.Time { return now }))
}

func pendingVaccine(due calendar.Date) *Animal {
	return &Animal{
		ID: "animal-1",
		Activities: map[Kind]ActivityState{
			KindVaccine: {
				Kind:        KindVaccine,
				Label:       "Rabies",
				Stage:       StageAnnual,
				Status:      StatusPending,
				NextDueDate: due,
			},
		},
	}
}

func TestClassify_DueTodayGoesToTodayAndThankYou(t *testing.T) {
	loc := istLocation(t)
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, loc)
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	res := e.Classify(a, now)

	assert.Equal(t, calendar.NewDate(2024, 6, 10), res.Day)
	assert.True(t, res.Has(KindVaccine, BucketToday))
	assert.True(t, res.Has(KindVaccine, BucketThankYou))
	assert.False(t, res.Has(KindVaccine, BucketOneDay))
	assert.False(t, res.Has(KindVaccine, BucketSevenDay))
	assert.False(t, res.Mutated)
}

func TestClassify_ThankYouNotRepeatedOnceSent(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, istLocation(t))
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))
	_, err := e.MarkThankYouSent(a, KindVaccine)
	require.NoError(t, err)

	res := e.Classify(a, now)
	assert.True(t, res.Has(KindVaccine, BucketToday))
	assert.False(t, res.Has(KindVaccine, BucketThankYou))
}

func TestClassify_ExactDayWindows(t *testing.T) {
	loc := istLocation(t)
	due := calendar.NewDate(2024, 6, 10)

	cases := []struct {
		name string
		now  time.Time
		want []Bucket
	}{
		{"seven days before", time.Date(2024, 6, 3, 8, 0, 0, 0, loc), []Bucket{BucketSevenDay}},
		{"six days before", time.Date(2024, 6, 4, 8, 0, 0, 0, loc), nil},
		{"one day before", time.Date(2024, 6, 9, 23, 59, 0, 0, loc), []Bucket{BucketOneDay}},
		{"due day", time.Date(2024, 6, 10, 0, 1, 0, 0, loc), []Bucket{BucketToday, BucketThankYou}},
		{"two days after", time.Date(2024, 6, 12, 8, 0, 0, 0, loc), nil},
		{"three days after", time.Date(2024, 6, 13, 8, 0, 0, 0, loc), []Bucket{BucketMissed}},
		{"four days after", time.Date(2024, 6, 14, 8, 0, 0, 0, loc), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, tc.now)
			res := e.Classify(pendingVaccine(due), tc.now)
			if tc.want == nil {
				assert.True(t, res.Empty())
				return
			}
			require.Len(t, res.Activities, 1)
			assert.Equal(t, tc.want, res.Activities[0].Buckets)
		})
	}
}

func TestClassify_UsesCivilDayNotUTC(t *testing.T) {
	// 2024-06-09T19:00Z = 2024-06-10 00:30 IST => "hoy" es el día de vencimiento.
	now := time.Date(2024, 6, 9, 19, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	res := e.Classify(pendingVaccine(calendar.NewDate(2024, 6, 10)), now)
	assert.True(t, res.Has(KindVaccine, BucketToday))
	assert.False(t, res.Has(KindVaccine, BucketOneDay))
}

func TestClassify_MissedIsIdempotentSameDay(t *testing.T) {
	now := time.Date(2024, 6, 13, 10, 0, 0, 0, istLocation(t))
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	first := e.Classify(a, now)
	second := e.Classify(a, now.Add(2*time.Hour))

	assert.True(t, first.Mutated)
	assert.False(t, second.Mutated)
	assert.True(t, second.Has(KindVaccine, BucketMissed))

	h := a.HistoryOf(KindVaccine)
	require.Len(t, h, 1)
	assert.Equal(t, HistoryMissed, h[0].Status)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), h[0].Date)
	assert.Equal(t, StageAnnual, h[0].Stage)
}

func TestClassify_MissedFiresOncePerCycleOverDailyRuns(t *testing.T) {
	loc := istLocation(t)
	due := calendar.NewDate(2024, 6, 10)
	a := pendingVaccine(due)

	missedDays := 0
	for day := 0; day < 20; day++ {
		now := time.Date(2024, 6, 1, 9, 0, 0, 0, loc).AddDate(0, 0, day)
		res := newTestEngine(t, now).Classify(a, now)
		if res.Has(KindVaccine, BucketMissed) {
			missedDays++
			assert.Equal(t, due.AddDays(3), res.Day)
		}
	}

	assert.Equal(t, 1, missedDays)
	assert.Equal(t, 1, a.HistoryOf(KindVaccine).Count(HistoryMissed))
}

func TestClassify_KindsAreIndependent(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, istLocation(t))
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))
	a.Activities[KindDeworming] = ActivityState{
		Kind:        KindDeworming,
		Label:       "Fenbendazole",
		Status:      StatusPending,
		NextDueDate: calendar.NewDate(2024, 6, 17),
	}

	res := e.Classify(a, now)
	assert.True(t, res.Has(KindVaccine, BucketToday))
	assert.True(t, res.Has(KindDeworming, BucketSevenDay))
	assert.False(t, res.Has(KindDeworming, BucketToday))
}

func TestClassify_SkipsCompletedActivities(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, istLocation(t))
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	changed, err := e.Complete(a, KindVaccine, calendar.NewDate(2024, 6, 10))
	require.NoError(t, err)
	require.True(t, changed)

	assert.True(t, e.Classify(a, now).Empty())
}

func TestComplete_IsIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 10, 11, 0, 0, 0, istLocation(t))
	e := newTestEngine(t, now)
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	changed, err := e.Complete(a, KindVaccine, calendar.NewDate(2024, 6, 10))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.Complete(a, KindVaccine, calendar.NewDate(2024, 6, 10))
	require.NoError(t, err)
	assert.False(t, changed)

	st, _ := a.Activity(KindVaccine)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), st.LastCompletedDate)
	assert.True(t, st.NextDueDate.IsZero())
	assert.Equal(t, "Rabies", st.Label)

	h := a.HistoryOf(KindVaccine)
	require.Len(t, h, 1)
	assert.Equal(t, HistoryCompleted, h[0].Status)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), h[0].Date)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), h[0].CompletedOn)
	assert.Equal(t, now, h[0].RecordedAt)
}

func TestComplete_Errors(t *testing.T) {
	e := newTestEngine(t, time.Now())
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	_, err := e.Complete(a, KindDeworming, calendar.NewDate(2024, 6, 10))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.Complete(a, Kind("FLEA"), calendar.NewDate(2024, 6, 10))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.Complete(a, KindVaccine, calendar.Date{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	st, _ := a.Activity(KindVaccine)
	assert.Equal(t, StatusPending, st.Status)
	assert.Empty(t, a.HistoryOf(KindVaccine))
}

func TestScheduleNext_ArchivesPreviousCycle(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 6, 1, 9, 0, 0, 0, istLocation(t)))
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	changed, err := e.ScheduleNext(a, KindVaccine, Cycle{
		Label:       "DHPPi+L",
		Stage:       "2nd",
		NextDueDate: calendar.NewDate(2024, 7, 1),
	})
	require.NoError(t, err)
	assert.True(t, changed)

	st, _ := a.Activity(KindVaccine)
	assert.Equal(t, "DHPPi+L", st.Label)
	assert.Equal(t, "Rabies", st.PreviousLabel)
	assert.Equal(t, Stage2nd, st.Stage)
	assert.Equal(t, StatusPending, st.Status)
	assert.False(t, st.ThankYouSent)

	h := a.HistoryOf(KindVaccine)
	require.Len(t, h, 1)
	assert.Equal(t, HistoryArchived, h[0].Status)
	assert.Equal(t, "Rabies", h[0].Label)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), h[0].Date)
}

func TestScheduleNext_AfterCompleteKeepsBothTraces(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 6, 10, 9, 0, 0, 0, istLocation(t)))
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))
	_, err := e.MarkThankYouSent(a, KindVaccine)
	require.NoError(t, err)
	_, err = e.Complete(a, KindVaccine, calendar.NewDate(2024, 6, 10))
	require.NoError(t, err)

	_, err = e.ScheduleNext(a, KindVaccine, Cycle{Label: "Rabies", Stage: StageAnnual, NextDueDate: calendar.NewDate(2025, 6, 10)})
	require.NoError(t, err)

	st, _ := a.Activity(KindVaccine)
	assert.False(t, st.ThankYouSent)
	assert.Equal(t, calendar.NewDate(2024, 6, 10), st.LastCompletedDate)

	h := a.HistoryOf(KindVaccine)
	require.Len(t, h, 2)
	assert.Equal(t, HistoryCompleted, h[0].Status)
	assert.Equal(t, HistoryArchived, h[1].Status)
}

func TestScheduleNext_CyclesSharingDueDateEachLeaveTrace(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 6, 1, 9, 0, 0, 0, istLocation(t)))
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	// Corrección del label manteniendo la fecha, luego reprogramación.
	_, err := e.ScheduleNext(a, KindVaccine, Cycle{Label: "DHPP", Stage: StageAnnual, NextDueDate: calendar.NewDate(2024, 6, 10)})
	require.NoError(t, err)
	_, err = e.ScheduleNext(a, KindVaccine, Cycle{Label: "Lepto", Stage: StageAnnual, NextDueDate: calendar.NewDate(2024, 6, 20)})
	require.NoError(t, err)

	h := a.HistoryOf(KindVaccine)
	require.Len(t, h, 2)
	assert.Equal(t, "Rabies", h[0].Label)
	assert.Equal(t, "DHPP", h[1].Label)
	for _, ev := range h {
		assert.Equal(t, HistoryArchived, ev.Status)
		assert.Equal(t, calendar.NewDate(2024, 6, 10), ev.Date)
	}
}

func TestHistoryLedger_ArchivedDedupesOnlyIdenticalSnapshots(t *testing.T) {
	var l HistoryLedger
	due := calendar.NewDate(2024, 6, 10)

	assert.True(t, l.Append(HistoryEvent{Kind: KindVaccine, Label: "Rabies", Stage: StageAnnual, Status: HistoryArchived, Date: due}))
	assert.False(t, l.Append(HistoryEvent{Kind: KindVaccine, Label: "Rabies", Stage: StageAnnual, Status: HistoryArchived, Date: due}))
	assert.True(t, l.Append(HistoryEvent{Kind: KindVaccine, Label: "Rabies", Stage: StageCustom, CustomStage: "booster", Status: HistoryArchived, Date: due}))

	// MISSED sigue deduplicando por (kind, date, status).
	assert.True(t, l.Append(HistoryEvent{Kind: KindVaccine, Label: "Rabies", Status: HistoryMissed, Date: due}))
	assert.False(t, l.Append(HistoryEvent{Kind: KindVaccine, Label: "DHPP", Status: HistoryMissed, Date: due}))
	assert.Len(t, l, 3)
}

func TestScheduleNext_SameCycleIsNoop(t *testing.T) {
	e := newTestEngine(t, time.Now())
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))

	changed, err := e.ScheduleNext(a, KindVaccine, Cycle{Label: "Rabies", Stage: StageAnnual, NextDueDate: calendar.NewDate(2024, 6, 10)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, a.HistoryOf(KindVaccine))
}

func TestScheduleNext_ValidationLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t, time.Now())

	cases := []struct {
		name string
		kind Kind
		c    Cycle
	}{
		{"bad stage", KindVaccine, Cycle{Label: "Rabies", Stage: "5TH", NextDueDate: calendar.NewDate(2024, 7, 1)}},
		{"missing stage", KindVaccine, Cycle{Label: "Rabies", NextDueDate: calendar.NewDate(2024, 7, 1)}},
		{"missing label", KindVaccine, Cycle{Stage: StageAnnual, NextDueDate: calendar.NewDate(2024, 7, 1)}},
		{"missing due", KindVaccine, Cycle{Label: "Rabies", Stage: StageAnnual}},
		{"stage on deworming", KindDeworming, Cycle{Label: "Pyrantel", Stage: Stage1st, NextDueDate: calendar.NewDate(2024, 7, 1)}},
		{"unknown kind", Kind("BATH"), Cycle{Label: "x", NextDueDate: calendar.NewDate(2024, 7, 1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := pendingVaccine(calendar.NewDate(2024, 6, 10))
			before := a.Clone()

			_, err := e.ScheduleNext(a, tc.kind, tc.c)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, before, *a)
		})
	}
}

func TestScheduleNext_DewormingWithoutStage(t *testing.T) {
	e := newTestEngine(t, time.Now())
	a := &Animal{ID: "a"}

	changed, err := e.ScheduleNext(a, KindDeworming, Cycle{Label: "Pyrantel pamoate", NextDueDate: calendar.NewDate(2024, 7, 1)})
	require.NoError(t, err)
	assert.True(t, changed)

	st, ok := a.Activity(KindDeworming)
	require.True(t, ok)
	assert.Equal(t, Stage(""), st.Stage)
	assert.Empty(t, a.HistoryOf(KindDeworming))
}

func TestRemoveHistory(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 6, 13, 9, 0, 0, 0, istLocation(t)))
	a := pendingVaccine(calendar.NewDate(2024, 6, 10))
	e.Classify(a, time.Date(2024, 6, 13, 9, 0, 0, 0, istLocation(t)))
	require.Len(t, a.HistoryOf(KindVaccine), 1)

	assert.ErrorIs(t, e.RemoveHistory(a, KindVaccine, 1), ErrNotFound)
	assert.ErrorIs(t, e.RemoveHistory(a, KindVaccine, -1), ErrNotFound)

	require.NoError(t, e.RemoveHistory(a, KindVaccine, 0))
	assert.Empty(t, a.HistoryOf(KindVaccine))
}
