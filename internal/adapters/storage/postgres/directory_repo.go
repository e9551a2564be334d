package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vet-care-reminders/internal/domain/directory"
)

type DirectoryRepo struct {
	db *sql.DB
}

func NewDirectoryRepo(db *sql.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

func (r *DirectoryRepo) PutOwner(ctx context.Context, o directory.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO owners (id, account_id, name, phone, email, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`,
		o.ID,
		o.AccountID,
		o.Name,
		o.Phone,
		o.Email,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *DirectoryRepo) GetOwner(ctx context.Context, id string) (directory.Owner, error) {
	var o directory.Owner
	err := r.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, phone, email, created_at, updated_at
		FROM owners
		WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.AccountID,
		&o.Name,
		&o.Phone,
		&o.Email,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.Owner{}, fmt.Errorf("%w: owner %s", directory.ErrNotFound, id)
	}
	if err != nil {
		return directory.Owner{}, err
	}
	return o, nil
}

func (r *DirectoryRepo) PutAccount(ctx context.Context, a directory.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, doctor_name, clinic_name, contact, template_id, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			doctor_name = EXCLUDED.doctor_name,
			clinic_name = EXCLUDED.clinic_name,
			contact = EXCLUDED.contact,
			template_id = EXCLUDED.template_id,
			updated_at = EXCLUDED.updated_at
	`,
		a.ID,
		a.Name,
		string(a.Type),
		a.DoctorName,
		a.ClinicName,
		a.Contact,
		a.TemplateID,
		a.UpdatedAt,
	)
	return err
}

func (r *DirectoryRepo) GetAccount(ctx context.Context, id string) (directory.Account, error) {
	var (
		a   directory.Account
		typ string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, type, doctor_name, clinic_name, contact, template_id, updated_at
		FROM accounts
		WHERE id = $1
	`, id).Scan(
		&a.ID,
		&a.Name,
		&typ,
		&a.DoctorName,
		&a.ClinicName,
		&a.Contact,
		&a.TemplateID,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.Account{}, fmt.Errorf("%w: account %s", directory.ErrNotFound, id)
	}
	if err != nil {
		return directory.Account{}, err
	}
	a.Type = directory.AccountType(typ)
	return a, nil
}
