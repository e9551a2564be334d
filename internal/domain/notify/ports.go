package notify

import (
	"context"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/reminders"
)

// Gateway entrega un texto a un teléfono E.164 y devuelve el id del mensaje.
// No se consumen recibos de entrega.
type Gateway interface {
	Send(ctx context.Context, phoneE164, text string) (string, error)
}

// SendGuard evita que dos workers (o dos procesos) envíen el mismo aviso a la vez.
// Claim devuelve false si otro ya lo tiene.
type SendGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// OutcomeEvent se publica por cada aviso registrado.
type OutcomeEvent struct {
	AccountID string            `json:"account_id"`
	AnimalID  string            `json:"animal_id"`
	OwnerID   string            `json:"owner_id"`
	Kind      care.Kind         `json:"kind"`
	Window    reminders.Window  `json:"window"`
	Day       calendar.Date     `json:"day"`
	Outcome   reminders.Outcome `json:"outcome"`
	MessageID string            `json:"message_id,omitempty"`
	Error     string            `json:"error,omitempty"`
	At        time.Time         `json:"at"`
}

type OutcomePublisher interface {
	Publish(ctx context.Context, ev OutcomeEvent) error
}

// Metrics recibe contadores del dispatcher.
type Metrics interface {
	BucketClassified(bucket string)
	ReminderOutcome(window, outcome string)
	AnimalError()
	RunDuration(d time.Duration)
}

type nopGuard struct{}

func (nopGuard) Claim(context.Context, string) (bool, error) { return true, nil }
func (nopGuard) Release(context.Context, string) error       { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, OutcomeEvent) error { return nil }

type nopMetrics struct{}

func (nopMetrics) BucketClassified(string)        {}
func (nopMetrics) ReminderOutcome(string, string) {}
func (nopMetrics) AnimalError()                   {}
func (nopMetrics) RunDuration(time.Duration)      {}
