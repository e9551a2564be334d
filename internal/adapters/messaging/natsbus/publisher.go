// Package natsbus publica el resultado de cada aviso en NATS para consumidores externos
// (analytics, CRM). Es best-effort: el ledger es la fuente de verdad.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/notify"

	"github.com/nats-io/nats.go"
)

// Conn es lo mínimo que necesitamos de *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	conn   Conn
	prefix string
}

func NewPublisher(conn Conn, prefix string) *Publisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "vetcare.reminders"
	}
	return &Publisher{conn: conn, prefix: prefix}
}

// Subject: <prefix>.<window en minúsculas>, p.ej. vetcare.reminders.one_day.
func (p *Publisher) Subject(ev notify.OutcomeEvent) string {
	return p.prefix + "." + strings.ToLower(string(ev.Window))
}

func (p *Publisher) Publish(ctx context.Context, ev notify.OutcomeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("natsbus: marshal: %w", err)
	}
	if err := p.conn.Publish(p.Subject(ev), b); err != nil {
		return fmt.Errorf("natsbus: publish: %w", err)
	}
	return nil
}

// Connect reintenta hasta timeout; útil cuando NATS arranca junto al servicio.
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		conn, err := nats.Connect(url, nats.Name("vet-care-reminders"))
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("connect nats timeout after %s: %w", timeout, lastErr)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// Close drena y cierra la conexión.
func Close(conn *nats.Conn) {
	if conn == nil {
		return
	}
	_ = conn.Drain()
	conn.Close()
}
