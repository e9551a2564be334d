package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vet-care-reminders/internal/domain/reminders"
)

type reminderRepo struct {
	mu    sync.RWMutex
	byKey map[reminders.Key]reminders.Entry
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{
		byKey: make(map[reminders.Key]reminders.Entry),
	}
}

func (r *reminderRepo) Get(ctx context.Context, key reminders.Key) (reminders.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byKey[key]
	if !ok {
		return reminders.Entry{}, fmt.Errorf("%w: reminder %s/%s/%s/%s", reminders.ErrNotFound, key.AnimalID, key.Kind, key.Window, key.Day)
	}
	return e, nil
}

func (r *reminderRepo) Insert(ctx context.Context, e reminders.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[e.Key()]; exists {
		return reminders.ErrDuplicate
	}
	r.byKey[e.Key()] = e
	return nil
}

func (r *reminderRepo) Update(ctx context.Context, e reminders.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byKey[e.Key()]; !exists {
		return reminders.ErrNotFound
	}
	r.byKey[e.Key()] = e
	return nil
}

func (r *reminderRepo) ListSentBetween(ctx context.Context, accountID string, from, to time.Time) ([]reminders.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Entry, 0)
	for _, e := range r.byKey {
		if accountID != "" && e.AccountID != accountID {
			continue
		}
		if e.SentAt.Before(from) || e.SentAt.After(to) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}
