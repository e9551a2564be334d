package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/reminders"
)

// RemindersRepo: la restricción uq_reminders_key hace única la Key aunque corran
// varios procesos a la vez.
type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

const reminderColumns = `id, account_id, animal_id, owner_id, kind, reminder_window, day::text, outcome, message_id, error, attempts, sent_at, visited, thank_you_sent, followup_sent, updated_at`

func (r *RemindersRepo) Get(ctx context.Context, key reminders.Key) (reminders.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE animal_id = $1 AND kind = $2 AND reminder_window = $3 AND day = $4
	`, key.AnimalID, string(key.Kind), string(key.Window), key.Day.String())

	e, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return reminders.Entry{}, fmt.Errorf("%w: reminder %s/%s/%s/%s", reminders.ErrNotFound, key.AnimalID, key.Kind, key.Window, key.Day)
	}
	return e, err
}

func (r *RemindersRepo) Insert(ctx context.Context, e reminders.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (
			id, account_id, animal_id, owner_id,
			kind, reminder_window, day,
			outcome, message_id, error, attempts, sent_at,
			visited, thank_you_sent, followup_sent, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		e.ID,
		e.AccountID,
		e.AnimalID,
		e.OwnerID,
		string(e.Kind),
		string(e.Window),
		e.Day.String(),
		string(e.Outcome),
		e.MessageID,
		e.Error,
		e.Attempts,
		nullTime(e.SentAt),
		e.Visited,
		e.ThankYouSent,
		e.FollowupSent,
		e.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return reminders.ErrDuplicate
	}
	return err
}

func (r *RemindersRepo) Update(ctx context.Context, e reminders.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET
			owner_id = $5,
			outcome = $6,
			message_id = $7,
			error = $8,
			attempts = $9,
			sent_at = $10,
			visited = $11,
			thank_you_sent = $12,
			followup_sent = $13,
			updated_at = $14
		WHERE animal_id = $1 AND kind = $2 AND reminder_window = $3 AND day = $4
	`,
		e.AnimalID,
		string(e.Kind),
		string(e.Window),
		e.Day.String(),
		e.OwnerID,
		string(e.Outcome),
		e.MessageID,
		e.Error,
		e.Attempts,
		nullTime(e.SentAt),
		e.Visited,
		e.ThankYouSent,
		e.FollowupSent,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reminders.ErrNotFound
	}
	return nil
}

func (r *RemindersRepo) ListSentBetween(ctx context.Context, accountID string, from, to time.Time) ([]reminders.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE ($1 = '' OR account_id = $1)
		  AND sent_at BETWEEN $2 AND $3
		ORDER BY sent_at ASC, id ASC
	`, strings.TrimSpace(accountID), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Entry, 0)
	for rows.Next() {
		e, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanReminder(s rowScanner) (reminders.Entry, error) {
	var (
		e       reminders.Entry
		kind    string
		window  string
		day     string
		outcome string
		sentAt  sql.NullTime
	)
	if err := s.Scan(
		&e.ID,
		&e.AccountID,
		&e.AnimalID,
		&e.OwnerID,
		&kind,
		&window,
		&day,
		&outcome,
		&e.MessageID,
		&e.Error,
		&e.Attempts,
		&sentAt,
		&e.Visited,
		&e.ThankYouSent,
		&e.FollowupSent,
		&e.UpdatedAt,
	); err != nil {
		return reminders.Entry{}, err
	}

	d, err := calendar.ParseDate(day)
	if err != nil {
		return reminders.Entry{}, fmt.Errorf("reminder %s day: %w", e.ID, err)
	}
	e.Day = d
	e.Kind = care.Kind(kind)
	e.Window = reminders.Window(window)
	e.Outcome = reminders.Outcome(outcome)
	if sentAt.Valid {
		e.SentAt = sentAt.Time
	}
	return e, nil
}
