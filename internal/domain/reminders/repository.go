package reminders

import (
	"context"
	"time"
)

type Repository interface {
	Get(ctx context.Context, key Key) (Entry, error)
	// Insert devuelve ErrDuplicate si ya existe una fila para e.Key().
	Insert(ctx context.Context, e Entry) error
	Update(ctx context.Context, e Entry) error
	// ListSentBetween filtra por sent_at dentro de [from, to]; accountID vacío = todas.
	ListSentBetween(ctx context.Context, accountID string, from, to time.Time) ([]Entry, error)
}
