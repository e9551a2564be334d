package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vet-care-reminders/internal/domain/care"
)

// AnimalsRepo guarda cada animal como documento: columnas escalares + activities/history en JSONB.
type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `id, account_id, owner_id, name, species, breed, activities, history, version, created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a care.Animal) error {
	activities, history, err := encodeAnimalDoc(a)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,1,$9,$10)
	`,
		a.ID,
		a.AccountID,
		a.OwnerID,
		a.Name,
		string(a.Species),
		a.Breed,
		activities,
		history,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("animal %s already exists", a.ID)
	}
	return err
}

func (r *AnimalsRepo) LoadAnimal(ctx context.Context, id string) (care.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return care.Animal{}, fmt.Errorf("%w: animal id empty", care.ErrNotFound)
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return care.Animal{}, fmt.Errorf("%w: animal %s", care.ErrNotFound, id)
	}
	return a, err
}

// SaveAnimal escribe sólo si la versión guardada sigue siendo a.Version.
func (r *AnimalsRepo) SaveAnimal(ctx context.Context, a care.Animal) (care.Animal, error) {
	activities, history, err := encodeAnimalDoc(a)
	if err != nil {
		return care.Animal{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			owner_id = $3,
			name = $4,
			species = $5,
			breed = $6,
			activities = $7,
			history = $8,
			updated_at = $9,
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		a.ID,
		a.Version,
		a.OwnerID,
		a.Name,
		string(a.Species),
		a.Breed,
		activities,
		history,
		a.UpdatedAt,
	)
	if err != nil {
		return care.Animal{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var stored int64
		err := r.db.QueryRowContext(ctx, `SELECT version FROM animals WHERE id = $1`, a.ID).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return care.Animal{}, fmt.Errorf("%w: animal %s", care.ErrNotFound, a.ID)
		}
		if err != nil {
			return care.Animal{}, err
		}
		return care.Animal{}, fmt.Errorf("%w: animal %s version %d (stored %d)", care.ErrConflict, a.ID, a.Version, stored)
	}

	a.Version++
	return a, nil
}

// DeleteAnimal borra la fila; activities e history viajan en el mismo documento.
func (r *AnimalsRepo) DeleteAnimal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: animal %s", care.ErrNotFound, id)
	}
	return nil
}

func (r *AnimalsRepo) ListAnimalsForScheduling(ctx context.Context, accountScope string) ([]care.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE ($1 = '' OR account_id = $1)
		ORDER BY created_at ASC, id ASC
	`, strings.TrimSpace(accountScope))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]care.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s rowScanner) (care.Animal, error) {
	var (
		a          care.Animal
		species    string
		activities []byte
		history    []byte
	)
	if err := s.Scan(
		&a.ID,
		&a.AccountID,
		&a.OwnerID,
		&a.Name,
		&species,
		&a.Breed,
		&activities,
		&history,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return care.Animal{}, err
	}
	a.Species = care.Species(species)

	if len(activities) > 0 {
		if err := json.Unmarshal(activities, &a.Activities); err != nil {
			return care.Animal{}, fmt.Errorf("animal %s activities: %w", a.ID, err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.History); err != nil {
			return care.Animal{}, fmt.Errorf("animal %s history: %w", a.ID, err)
		}
	}
	return a, nil
}

func encodeAnimalDoc(a care.Animal) ([]byte, []byte, error) {
	activities := a.Activities
	if activities == nil {
		activities = map[care.Kind]care.ActivityState{}
	}
	history := a.History
	if history == nil {
		history = map[care.Kind]care.HistoryLedger{}
	}

	ab, err := json.Marshal(activities)
	if err != nil {
		return nil, nil, fmt.Errorf("encode activities: %w", err)
	}
	hb, err := json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("encode history: %w", err)
	}
	return ab, hb, nil
}
