package care

import (
	"time"

	"vet-care-reminders/internal/domain/calendar"
)

// ActivityState es el ciclo "actual" de una actividad (uno por animal y Kind).
type ActivityState struct {
	Kind Kind `json:"kind"`

	Label         string `json:"label"`
	PreviousLabel string `json:"previous_label,omitempty"`

	Stage       Stage  `json:"stage,omitempty"`
	CustomStage string `json:"custom_stage,omitempty"`

	Status Status `json:"status"`

	NextDueDate       calendar.Date `json:"next_due_date"`
	LastCompletedDate calendar.Date `json:"last_completed_date"`

	ThankYouSent bool `json:"thank_you_sent"`
}

// HistoryEvent es inmutable una vez escrito.
type HistoryEvent struct {
	Kind        Kind          `json:"kind"`
	Label       string        `json:"label"`
	Stage       Stage         `json:"stage,omitempty"`
	CustomStage string        `json:"custom_stage,omitempty"`
	Status      HistoryStatus `json:"status"`

	// Date es la fecha de vencimiento del ciclo al que pertenece el evento.
	Date        calendar.Date `json:"date"`
	CompletedOn calendar.Date `json:"completed_on"`

	RecordedAt time.Time `json:"recorded_at"`
}

// Animal es el documento que persiste el Store.
type Animal struct {
	ID        string
	AccountID string // clínica / usuario dueño del registro
	OwnerID   string

	Name    string
	Species Species
	Breed   string

	Activities map[Kind]ActivityState
	History    map[Kind]HistoryLedger

	// Version para actualización optimista por documento.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activity devuelve el estado actual para kind, si existe.
func (a *Animal) Activity(kind Kind) (ActivityState, bool) {
	if a.Activities == nil {
		return ActivityState{}, false
	}
	st, ok := a.Activities[kind]
	return st, ok
}

func (a *Animal) setActivity(st ActivityState) {
	if a.Activities == nil {
		a.Activities = make(map[Kind]ActivityState)
	}
	a.Activities[st.Kind] = st
}

// HistoryOf devuelve el ledger de kind (nil si está vacío).
func (a *Animal) HistoryOf(kind Kind) HistoryLedger {
	if a.History == nil {
		return nil
	}
	return a.History[kind]
}

func (a *Animal) appendHistory(e HistoryEvent) bool {
	if a.History == nil {
		a.History = make(map[Kind]HistoryLedger)
	}
	ledger := a.History[e.Kind]
	if !ledger.Append(e) {
		return false
	}
	a.History[e.Kind] = ledger
	return true
}

// Clone copia profunda para que el engine nunca mute el valor guardado en un repo en memoria.
func (a Animal) Clone() Animal {
	out := a
	if a.Activities != nil {
		out.Activities = make(map[Kind]ActivityState, len(a.Activities))
		for k, v := range a.Activities {
			out.Activities[k] = v
		}
	}
	if a.History != nil {
		out.History = make(map[Kind]HistoryLedger, len(a.History))
		for k, v := range a.History {
			out.History[k] = append(HistoryLedger(nil), v...)
		}
	}
	return out
}
