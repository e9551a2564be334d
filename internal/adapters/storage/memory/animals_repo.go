package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"vet-care-reminders/internal/domain/care"
)

type animalRepo struct {
	mu   sync.RWMutex
	byID map[string]care.Animal
}

func NewAnimalRepo() care.Repository {
	return &animalRepo{
		byID: make(map[string]care.Animal),
	}
}

func (r *animalRepo) Create(ctx context.Context, a care.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("animal already exists")
	}
	a.Version = 1
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *animalRepo) LoadAnimal(ctx context.Context, id string) (care.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return care.Animal{}, fmt.Errorf("%w: animal %s", care.ErrNotFound, id)
	}
	// Copia: el engine muta maps/slices del valor devuelto.
	return a.Clone(), nil
}

// SaveAnimal: single-writer por documento vía comparación de versión.
func (r *animalRepo) SaveAnimal(ctx context.Context, a care.Animal) (care.Animal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[a.ID]
	if !ok {
		return care.Animal{}, fmt.Errorf("%w: animal %s", care.ErrNotFound, a.ID)
	}
	if cur.Version != a.Version {
		return care.Animal{}, fmt.Errorf("%w: animal %s version %d (stored %d)", care.ErrConflict, a.ID, a.Version, cur.Version)
	}

	a.Version++
	r.byID[a.ID] = a.Clone()
	return a, nil
}

func (r *animalRepo) DeleteAnimal(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: animal %s", care.ErrNotFound, id)
	}
	delete(r.byID, id)
	return nil
}

func (r *animalRepo) ListAnimalsForScheduling(ctx context.Context, accountScope string) ([]care.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]care.Animal, 0)
	for _, a := range r.byID {
		if accountScope != "" && a.AccountID != accountScope {
			continue
		}
		out = append(out, a.Clone())
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
