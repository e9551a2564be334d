package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrDuplicate lo devuelve Repository.Insert cuando la Key ya existe.
	ErrDuplicate = errors.New("duplicate")
)

type Service struct {
	repo Repository
	cal  *calendar.Calendar
}

func NewService(repo Repository, cal *calendar.Calendar) *Service {
	return &Service{repo: repo, cal: cal}
}

func validateKey(k Key) error {
	if strings.TrimSpace(k.AnimalID) == "" {
		return fmt.Errorf("%w: animal_id required", ErrInvalidInput)
	}
	if _, ok := care.ParseKind(string(k.Kind)); !ok {
		return fmt.Errorf("%w: kind %q", ErrInvalidInput, k.Kind)
	}
	if !k.Window.Valid() {
		return fmt.Errorf("%w: window %q", ErrInvalidInput, k.Window)
	}
	if k.Day.IsZero() {
		return fmt.Errorf("%w: day required", ErrInvalidInput)
	}
	return nil
}

// HasFiredToday: true si ya hay fila SENT o SKIPPED. Una fila FAILED permite reintentar.
func (s *Service) HasFiredToday(ctx context.Context, animalID string, kind care.Kind, w Window, today calendar.Date) (bool, error) {
	key := Key{AnimalID: animalID, Kind: kind, Window: w, Day: today}
	if err := validateKey(key); err != nil {
		return false, err
	}
	e, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.Fired(), nil
}

func (s *Service) Get(ctx context.Context, key Key) (Entry, error) {
	if err := validateKey(key); err != nil {
		return Entry{}, err
	}
	return s.repo.Get(ctx, key)
}

// Record hace upsert por Key. Un reintento sobre la misma fila incrementa Attempts
// y sobreescribe el outcome, salvo que ya estuviera SENT.
func (s *Service) Record(ctx context.Context, e Entry) (Entry, error) {
	if err := validateKey(e.Key()); err != nil {
		return Entry{}, err
	}
	if !e.Outcome.Valid() {
		return Entry{}, fmt.Errorf("%w: outcome %q", ErrInvalidInput, e.Outcome)
	}

	now := s.cal.Now()
	if e.SentAt.IsZero() {
		e.SentAt = now
	}

	// Dos intentos: si otro worker insertó entre Get e Insert, se re-lee y se actualiza.
	for attempt := 0; attempt < 2; attempt++ {
		cur, err := s.repo.Get(ctx, e.Key())
		switch {
		case errors.Is(err, ErrNotFound):
			e.ID = uuid.NewString()
			e.Attempts = 1
			e.UpdatedAt = now
			err = s.repo.Insert(ctx, e)
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			if err != nil {
				return Entry{}, err
			}
			return e, nil

		case err != nil:
			return Entry{}, err

		default:
			cur.Attempts++
			cur.UpdatedAt = now
			if cur.Outcome != OutcomeSent {
				cur.Outcome = e.Outcome
				cur.MessageID = e.MessageID
				cur.Error = e.Error
				cur.SentAt = e.SentAt
			}
			if cur.OwnerID == "" {
				cur.OwnerID = e.OwnerID
			}
			if cur.AccountID == "" {
				cur.AccountID = e.AccountID
			}
			if err := s.repo.Update(ctx, cur); err != nil {
				return Entry{}, err
			}
			return cur, nil
		}
	}
	return Entry{}, fmt.Errorf("record %s/%s/%s: concurrent insert", e.AnimalID, e.Kind, e.Window)
}

func (s *Service) setFlag(ctx context.Context, key Key, fn func(e *Entry) bool) (Entry, error) {
	if err := validateKey(key); err != nil {
		return Entry{}, err
	}
	e, err := s.repo.Get(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	if !fn(&e) {
		return e, nil
	}
	e.UpdatedAt = s.cal.Now()
	if err := s.repo.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) MarkVisited(ctx context.Context, key Key) (Entry, error) {
	return s.setFlag(ctx, key, func(e *Entry) bool {
		if e.Visited {
			return false
		}
		e.Visited = true
		return true
	})
}

func (s *Service) MarkThankYouSent(ctx context.Context, key Key) (Entry, error) {
	return s.setFlag(ctx, key, func(e *Entry) bool {
		if e.ThankYouSent {
			return false
		}
		e.ThankYouSent = true
		return true
	})
}

func (s *Service) MarkFollowupSent(ctx context.Context, key Key) (Entry, error) {
	return s.setFlag(ctx, key, func(e *Entry) bool {
		if e.FollowupSent {
			return false
		}
		e.FollowupSent = true
		return true
	})
}

func (s *Service) MarkFlag(ctx context.Context, key Key, f Flag) (Entry, error) {
	switch f {
	case FlagVisited:
		return s.MarkVisited(ctx, key)
	case FlagThankYouSent:
		return s.MarkThankYouSent(ctx, key)
	case FlagFollowupSent:
		return s.MarkFollowupSent(ctx, key)
	default:
		return Entry{}, fmt.Errorf("%w: flag %q", ErrInvalidInput, f)
	}
}

// ListDay devuelve los avisos cuyo sent_at cae dentro del día civil.
func (s *Service) ListDay(ctx context.Context, accountID string, day calendar.Date) ([]Entry, error) {
	if day.IsZero() {
		day = s.cal.Today()
	}
	from, to := s.cal.DayBounds(day)
	return s.repo.ListSentBetween(ctx, accountID, from, to)
}

// DayCounts agrega los avisos SENT de un día.
type DayCounts struct {
	ByKind   map[care.Kind]int
	ByWindow map[Window]int
	Sent     int
	Failed   int
	Skipped  int
	Visited  int
}

func (s *Service) CountDay(ctx context.Context, accountID string, day calendar.Date) (DayCounts, error) {
	entries, err := s.ListDay(ctx, accountID, day)
	if err != nil {
		return DayCounts{}, err
	}
	c := DayCounts{
		ByKind:   make(map[care.Kind]int),
		ByWindow: make(map[Window]int),
	}
	for _, e := range entries {
		switch e.Outcome {
		case OutcomeFailed:
			c.Failed++
			continue
		case OutcomeSkipped:
			c.Skipped++
			continue
		}
		c.Sent++
		c.ByKind[e.Kind]++
		c.ByWindow[e.Window]++
		if e.Visited {
			c.Visited++
		}
	}
	return c, nil
}
