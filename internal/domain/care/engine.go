package care

import (
	"fmt"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/calendar"
)

// Engine es la máquina de estados de las actividades. Opera sobre el *Animal en
// memoria; persistir es responsabilidad del Service.
type Engine struct {
	cal *calendar.Calendar
}

func NewEngine(cal *calendar.Calendar) *Engine {
	return &Engine{cal: cal}
}

// ActivityBuckets son los buckets de una actividad en un día dado.
type ActivityBuckets struct {
	Kind    Kind          `json:"kind"`
	State   ActivityState `json:"state"`
	Buckets []Bucket      `json:"buckets"`
}

type Classification struct {
	AnimalID   string            `json:"animal_id"`
	Day        calendar.Date     `json:"day"`
	Activities []ActivityBuckets `json:"activities"`

	// Mutated indica que se agregó un evento MISSED y el animal debe guardarse.
	Mutated bool `json:"-"`
}

func (c Classification) Empty() bool { return len(c.Activities) == 0 }

func (c Classification) Has(kind Kind, b Bucket) bool {
	for _, ab := range c.Activities {
		if ab.Kind != kind {
			continue
		}
		for _, cur := range ab.Buckets {
			if cur == b {
				return true
			}
		}
	}
	return false
}

// Classify ubica cada actividad PENDING en cero o más buckets comparando días
// civiles exactos. Sólo MISSED muta (agrega el evento al historial si falta).
func (e *Engine) Classify(a *Animal, now time.Time) Classification {
	today := e.cal.DateOf(now)
	res := Classification{AnimalID: a.ID, Day: today}

	for _, kind := range Kinds {
		st, ok := a.Activity(kind)
		if !ok || st.Status != StatusPending || st.NextDueDate.IsZero() {
			continue
		}

		var buckets []Bucket
		switch today.DaysUntil(st.NextDueDate) {
		case 0:
			buckets = append(buckets, BucketToday)
			if !st.ThankYouSent {
				buckets = append(buckets, BucketThankYou)
			}
		case 1:
			buckets = append(buckets, BucketOneDay)
		case 7:
			buckets = append(buckets, BucketSevenDay)
		case -3:
			buckets = append(buckets, BucketMissed)
			added := a.appendHistory(HistoryEvent{
				Kind:        kind,
				Label:       st.Label,
				Stage:       st.Stage,
				CustomStage: st.CustomStage,
				Status:      HistoryMissed,
				Date:        st.NextDueDate,
				RecordedAt:  now,
			})
			if added {
				res.Mutated = true
			}
		}

		if len(buckets) == 0 {
			continue
		}
		res.Activities = append(res.Activities, ActivityBuckets{
			Kind:    kind,
			State:   st,
			Buckets: buckets,
		})
	}

	return res
}

// Complete cierra el ciclo PENDING de kind. Si ya estaba COMPLETED es un no-op (false, nil).
func (e *Engine) Complete(a *Animal, kind Kind, completionDate calendar.Date) (bool, error) {
	if _, ok := ParseKind(string(kind)); !ok {
		return false, fmt.Errorf("%w: kind %q", ErrInvalidInput, kind)
	}
	if completionDate.IsZero() {
		return false, fmt.Errorf("%w: completion date required", ErrInvalidInput)
	}

	st, ok := a.Activity(kind)
	if !ok {
		return false, fmt.Errorf("%w: no %s activity", ErrNotFound, kind)
	}
	if st.Status == StatusCompleted {
		return false, nil
	}

	due := st.NextDueDate
	if due.IsZero() {
		due = completionDate
	}

	a.appendHistory(HistoryEvent{
		Kind:        kind,
		Label:       st.Label,
		Stage:       st.Stage,
		CustomStage: st.CustomStage,
		Status:      HistoryCompleted,
		Date:        due,
		CompletedOn: completionDate,
		RecordedAt:  e.cal.Now(),
	})

	// Se conserva label/stage para mostrar "lo último completado"; la fecha del
	// ciclo cerrado vive en el historial, no en NextDueDate.
	st.Status = StatusCompleted
	st.LastCompletedDate = completionDate
	st.NextDueDate = calendar.Date{}
	a.setActivity(st)

	return true, nil
}

// Cycle es el nuevo ciclo que agenda el dueño.
type Cycle struct {
	Label       string
	Stage       Stage
	CustomStage string
	NextDueDate calendar.Date
}

func (e *Engine) validateCycle(kind Kind, c Cycle) (Cycle, error) {
	if _, ok := ParseKind(string(kind)); !ok {
		return Cycle{}, fmt.Errorf("%w: kind %q", ErrInvalidInput, kind)
	}

	c.Label = strings.TrimSpace(c.Label)
	c.CustomStage = strings.TrimSpace(c.CustomStage)
	c.Stage = Stage(strings.ToUpper(strings.TrimSpace(string(c.Stage))))

	if c.Label == "" {
		return Cycle{}, fmt.Errorf("%w: label required", ErrInvalidInput)
	}
	if c.NextDueDate.IsZero() {
		return Cycle{}, fmt.Errorf("%w: next due date required", ErrInvalidInput)
	}

	switch kind {
	case KindVaccine:
		if !c.Stage.Valid() {
			return Cycle{}, fmt.Errorf("%w: stage %q", ErrInvalidInput, c.Stage)
		}
		if c.Stage != StageCustom {
			c.CustomStage = ""
		}
	case KindDeworming:
		if c.Stage != "" {
			return Cycle{}, fmt.Errorf("%w: stage not allowed for %s", ErrInvalidInput, kind)
		}
		c.CustomStage = ""
	}
	return c, nil
}

// ScheduleNext reemplaza el ciclo actual. El ciclo previo (si tenía label) se
// archiva antes de sobrescribirlo. Devuelve false si el ciclo ya era exactamente ése.
func (e *Engine) ScheduleNext(a *Animal, kind Kind, c Cycle) (bool, error) {
	c, err := e.validateCycle(kind, c)
	if err != nil {
		return false, err
	}

	prev, had := a.Activity(kind)
	if had && prev.Status == StatusPending &&
		prev.Label == c.Label && prev.Stage == c.Stage &&
		prev.CustomStage == c.CustomStage && prev.NextDueDate == c.NextDueDate {
		return false, nil
	}

	if had && strings.TrimSpace(prev.Label) != "" {
		date := prev.NextDueDate
		if date.IsZero() {
			date = prev.LastCompletedDate
		}
		a.appendHistory(HistoryEvent{
			Kind:        kind,
			Label:       prev.Label,
			Stage:       prev.Stage,
			CustomStage: prev.CustomStage,
			Status:      HistoryArchived,
			Date:        date,
			RecordedAt:  e.cal.Now(),
		})
	}

	a.setActivity(ActivityState{
		Kind:              kind,
		Label:             c.Label,
		PreviousLabel:     prev.Label,
		Stage:             c.Stage,
		CustomStage:       c.CustomStage,
		Status:            StatusPending,
		NextDueDate:       c.NextDueDate,
		LastCompletedDate: prev.LastCompletedDate,
		ThankYouSent:      false,
	})
	return true, nil
}

// MarkThankYouSent marca el agradecimiento del ciclo actual. Idempotente.
func (e *Engine) MarkThankYouSent(a *Animal, kind Kind) (bool, error) {
	st, ok := a.Activity(kind)
	if !ok {
		return false, fmt.Errorf("%w: no %s activity", ErrNotFound, kind)
	}
	if st.ThankYouSent {
		return false, nil
	}
	st.ThankYouSent = true
	a.setActivity(st)
	return true, nil
}

// RemoveHistory borra la entrada index del historial de kind.
func (e *Engine) RemoveHistory(a *Animal, kind Kind, index int) error {
	if _, ok := ParseKind(string(kind)); !ok {
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, kind)
	}
	ledger, err := a.HistoryOf(kind).RemoveAt(index)
	if err != nil {
		return err
	}
	if a.History == nil {
		a.History = make(map[Kind]HistoryLedger)
	}
	a.History[kind] = ledger
	return nil
}
