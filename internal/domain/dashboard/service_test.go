package dashboard_test

import (
	"context"
	"testing"
	"time"

	"vet-care-reminders/internal/adapters/storage/memory"
	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/dashboard"
	"vet-care-reminders/internal/domain/reminders"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0.0, dashboard.ConversionRate(3, 0))
	assert.Equal(t, 50.0, dashboard.ConversionRate(1, 2))
	assert.Equal(t, 33.3, dashboard.ConversionRate(1, 3))
	assert.Equal(t, 66.7, dashboard.ConversionRate(2, 3))
}

func TestToday_Summary(t *testing.T) {
	ctx := context.Background()
	loc, err := calendar.LoadLocation(calendar.DefaultTimezone)
	require.NoError(t, err)
	now := time.Date(2024, time.June, 10, 3, 30, 0, 0, time.UTC)
	cal := calendar.New(loc, func() time.Time { return now })
	today := cal.Today()

	careSvc := care.NewService(memory.NewAnimalRepo(), cal, nil)
	ledger := reminders.NewService(memory.NewReminderRepo(), cal)
	svc := dashboard.NewService(careSvc, ledger, cal)

	mk := func(account string, vaccineDue, dewormDue calendar.Date) care.Animal {
		in := care.CreateInput{AccountID: account, OwnerID: "o1", Name: "Pet", Species: care.SpeciesCat}
		if !vaccineDue.IsZero() {
			in.Vaccine = &care.Cycle{Label: "FVRCP", Stage: care.Stage1st, NextDueDate: vaccineDue}
		}
		if !dewormDue.IsZero() {
			in.Deworming = &care.Cycle{Label: "Drontal", NextDueDate: dewormDue}
		}
		a, err := careSvc.Create(ctx, in)
		require.NoError(t, err)
		return a
	}

	a1 := mk("acc", today, today)
	a2 := mk("acc", today, calendar.Date{})
	mk("acc", today.AddDays(1), calendar.Date{})
	mk("other", today, today)

	// a2 completó hoy su vacuna.
	_, _, err = careSvc.Complete(ctx, a2.ID, care.KindVaccine, today)
	require.NoError(t, err)

	record := func(animalID string, kind care.Kind, w reminders.Window, o reminders.Outcome) {
		_, err := ledger.Record(ctx, reminders.Entry{AccountID: "acc", AnimalID: animalID, Kind: kind, Window: w, Day: today, Outcome: o})
		require.NoError(t, err)
	}
	record(a1.ID, care.KindVaccine, reminders.WindowToday, reminders.OutcomeSent)
	record(a1.ID, care.KindVaccine, reminders.WindowThankYou, reminders.OutcomeSent)
	record(a1.ID, care.KindDeworming, reminders.WindowToday, reminders.OutcomeSent)
	record(a2.ID, care.KindVaccine, reminders.WindowMissed, reminders.OutcomeFailed)

	sum, err := svc.Today(ctx, "acc")
	require.NoError(t, err)

	assert.Equal(t, today, sum.Day)
	assert.Equal(t, 1, sum.VaccineDueToday)
	assert.Equal(t, 1, sum.DewormingDueToday)
	assert.Equal(t, 2, sum.TotalDueToday)
	assert.Equal(t, 2, sum.VaccineSent)
	assert.Equal(t, 1, sum.DewormingSent)
	assert.Equal(t, 3, sum.TotalSent)
	assert.Equal(t, 1, sum.FailedSends)
	assert.Equal(t, 1, sum.ThankYouCount)
	assert.Equal(t, 0, sum.MissedCount)
	assert.Equal(t, 1, sum.VaccineCompleted)
	assert.Equal(t, 0, sum.DewormingCompleted)
	assert.Equal(t, 33.3, sum.ConversionRate)
}
