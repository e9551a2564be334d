package care

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	// ErrConflict: la versión del documento cambió entre lectura y escritura.
	ErrConflict = errors.New("conflict")
)

const maxSaveAttempts = 3

type Service struct {
	repo   Repository
	engine *Engine
	cal    *calendar.Calendar
	log    logger.Logger
}

func NewService(repo Repository, cal *calendar.Calendar, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		engine: NewEngine(cal),
		cal:    cal,
		log:    log.With(map[string]any{"component": "care"}),
	}
}

func (s *Service) Calendar() *calendar.Calendar { return s.cal }

type CreateInput struct {
	AccountID string
	OwnerID   string
	Name      string
	Species   Species
	Breed     string

	// Ciclos iniciales opcionales.
	Vaccine   *Cycle
	Deworming *Cycle
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	if strings.TrimSpace(in.AccountID) == "" || strings.TrimSpace(in.OwnerID) == "" {
		return Animal{}, fmt.Errorf("%w: account and owner required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Animal{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	species := Species(strings.ToLower(strings.TrimSpace(string(in.Species))))
	if species != SpeciesDog && species != SpeciesCat {
		return Animal{}, fmt.Errorf("%w: species %q", ErrInvalidInput, in.Species)
	}

	now := s.cal.Now()
	a := Animal{
		ID:        uuid.NewString(),
		AccountID: strings.TrimSpace(in.AccountID),
		OwnerID:   strings.TrimSpace(in.OwnerID),
		Name:      strings.TrimSpace(in.Name),
		Species:   species,
		Breed:     strings.TrimSpace(in.Breed),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Se valida todo antes de escribir: un ciclo inválido no deja el animal a medias.
	if in.Vaccine != nil {
		if _, err := s.engine.ScheduleNext(&a, KindVaccine, *in.Vaccine); err != nil {
			return Animal{}, err
		}
	}
	if in.Deworming != nil {
		if _, err := s.engine.ScheduleNext(&a, KindDeworming, *in.Deworming); err != nil {
			return Animal{}, err
		}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.LoadAnimal(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]Animal, error) {
	return s.repo.ListAnimalsForScheduling(ctx, accountID)
}

// UpdateProfileInput usa punteros para PATCH real: nil = no tocar.
type UpdateProfileInput struct {
	Name    *string
	Breed   *string
	OwnerID *string

	// ExpectedVersion > 0 exige que el documento siga en esa versión.
	ExpectedVersion int64
}

// UpdateProfile edita los datos de ficha del animal. Actividades e historial no se tocan.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Animal, bool, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Animal{}, false, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if in.OwnerID != nil && strings.TrimSpace(*in.OwnerID) == "" {
		return Animal{}, false, fmt.Errorf("%w: owner required", ErrInvalidInput)
	}

	return s.mutate(ctx, id, func(a *Animal) (bool, error) {
		if in.ExpectedVersion > 0 && a.Version != in.ExpectedVersion {
			return false, fmt.Errorf("%w: animal %s version %d (stored %d)", ErrConflict, a.ID, in.ExpectedVersion, a.Version)
		}

		changed := false
		set := func(dst *string, v *string) {
			if v == nil {
				return
			}
			if nv := strings.TrimSpace(*v); nv != *dst {
				*dst = nv
				changed = true
			}
		}
		set(&a.Name, in.Name)
		set(&a.Breed, in.Breed)
		set(&a.OwnerID, in.OwnerID)
		return changed, nil
	})
}

// Delete borra el animal con su estado e historial. El ReminderLedger queda como auditoría.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.DeleteAnimal(ctx, id); err != nil {
		return err
	}
	s.log.Info("animal deleted", map[string]any{"animal_id": id})
	return nil
}

// mutate carga, aplica fn y guarda. Ante ErrConflict recarga y reintenta: todas
// las operaciones de Engine son idempotentes, re-aplicarlas es seguro.
func (s *Service) mutate(ctx context.Context, id string, fn func(a *Animal) (bool, error)) (Animal, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, false, ErrInvalidInput
	}

	for attempt := 1; ; attempt++ {
		a, err := s.repo.LoadAnimal(ctx, id)
		if err != nil {
			return Animal{}, false, err
		}

		changed, err := fn(&a)
		if err != nil || !changed {
			return a, false, err
		}

		a.UpdatedAt = s.cal.Now()
		saved, err := s.repo.SaveAnimal(ctx, a)
		if err == nil {
			return saved, true, nil
		}
		if !errors.Is(err, ErrConflict) || attempt >= maxSaveAttempts {
			return Animal{}, false, err
		}

		s.log.Warn("version conflict, retrying", map[string]any{
			"animal_id": id,
			"attempt":   attempt,
		})
	}
}

// Classify clasifica un animal "ahora" y persiste el efecto de MISSED si lo hubo.
func (s *Service) Classify(ctx context.Context, id string) (Classification, error) {
	return s.ClassifyAt(ctx, id, s.cal.Now())
}

// ClassifyAt clasifica contra un instante fijo, para que una pasada completa use
// el mismo día aunque cruce la medianoche.
func (s *Service) ClassifyAt(ctx context.Context, id string, now time.Time) (Classification, error) {
	var res Classification
	_, _, err := s.mutate(ctx, id, func(a *Animal) (bool, error) {
		res = s.engine.Classify(a, now)
		return res.Mutated, nil
	})
	if err != nil {
		return Classification{}, err
	}
	return res, nil
}

// ClassifyAll recalcula los buckets de todos los animales del scope. Un animal
// con error se registra y se omite.
func (s *Service) ClassifyAll(ctx context.Context, accountScope string) ([]Classification, error) {
	animals, err := s.repo.ListAnimalsForScheduling(ctx, accountScope)
	if err != nil {
		return nil, err
	}

	now := s.cal.Now()
	out := make([]Classification, 0, len(animals))
	for _, a := range animals {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := s.ClassifyAt(ctx, a.ID, now)
		if err != nil {
			s.log.Error("classify failed", map[string]any{"animal_id": a.ID, "error": err.Error()})
			continue
		}
		if !res.Empty() {
			out = append(out, res)
		}
	}
	return out, nil
}

// Complete cierra el ciclo actual. changed=false significa que ya estaba completado.
func (s *Service) Complete(ctx context.Context, id string, kind Kind, completionDate calendar.Date) (Animal, bool, error) {
	return s.mutate(ctx, id, func(a *Animal) (bool, error) {
		return s.engine.Complete(a, kind, completionDate)
	})
}

func (s *Service) ScheduleNext(ctx context.Context, id string, kind Kind, c Cycle) (Animal, bool, error) {
	// Validar antes de tocar el store.
	if _, err := s.engine.validateCycle(kind, c); err != nil {
		return Animal{}, false, err
	}
	return s.mutate(ctx, id, func(a *Animal) (bool, error) {
		return s.engine.ScheduleNext(a, kind, c)
	})
}

func (s *Service) MarkThankYouSent(ctx context.Context, id string, kind Kind) (Animal, bool, error) {
	return s.mutate(ctx, id, func(a *Animal) (bool, error) {
		return s.engine.MarkThankYouSent(a, kind)
	})
}

func (s *Service) RemoveHistory(ctx context.Context, id string, kind Kind, index int) (Animal, error) {
	a, _, err := s.mutate(ctx, id, func(a *Animal) (bool, error) {
		if err := s.engine.RemoveHistory(a, kind, index); err != nil {
			return false, err
		}
		return true, nil
	})
	return a, err
}
