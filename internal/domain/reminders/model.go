package reminders

import (
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
)

// Key identifica lógicamente un aviso: un bucket disparado por animal, Kind y día.
type Key struct {
	AnimalID string
	Kind     care.Kind
	Window   Window
	Day      calendar.Date
}

// Entry es una fila del audit log. Se crea una vez por Key; reintentos y marcas
// posteriores actualizan la misma fila.
type Entry struct {
	ID        string
	AccountID string
	AnimalID  string
	OwnerID   string

	Kind   care.Kind
	Window Window
	Day    calendar.Date

	Outcome   Outcome
	MessageID string
	Error     string
	Attempts  int
	SentAt    time.Time

	Visited      bool
	ThankYouSent bool
	FollowupSent bool

	UpdatedAt time.Time
}

func (e Entry) Key() Key {
	return Key{AnimalID: e.AnimalID, Kind: e.Kind, Window: e.Window, Day: e.Day}
}

// Fired indica que este aviso no debe volver a enviarse hoy.
func (e Entry) Fired() bool {
	return e.Outcome == OutcomeSent || e.Outcome == OutcomeSkipped
}
