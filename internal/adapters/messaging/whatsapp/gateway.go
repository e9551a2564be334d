// Package whatsapp entrega textos por la WhatsApp Cloud API.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vet-care-reminders/internal/domain/notify"
	"vet-care-reminders/internal/platform/httpclient"
	"vet-care-reminders/internal/platform/logger"

	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured = errors.New("whatsapp gateway not configured")
	ErrNoMessageID   = errors.New("whatsapp response missing message id")
)

type Config struct {
	BaseURL       string
	PhoneNumberID string
	Token         string
	Timeout       time.Duration
	// RatePerSecond limita los envíos salientes de este proceso; 0 = sin límite.
	RatePerSecond float64
}

type Gateway struct {
	http          *httpclient.Client
	phoneNumberID string
	limiter       *rate.Limiter
}

func NewGateway(cfg Config) (*Gateway, error) {
	if strings.TrimSpace(cfg.Token) == "" || strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: %w", err)
	}
	c.Header.Set("Authorization", "Bearer "+strings.TrimSpace(cfg.Token))
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &Gateway{
		http:          c,
		phoneNumberID: strings.TrimSpace(cfg.PhoneNumberID),
		limiter:       limiter,
	}, nil
}

type textBody struct {
	Body string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// Send manda un mensaje de texto. La API espera el número sin "+".
func (g *Gateway) Send(ctx context.Context, phoneE164, text string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("whatsapp rate limit: %w", err)
	}

	req := sendRequest{
		MessagingProduct: "whatsapp",
		To:               strings.TrimPrefix(phoneE164, "+"),
		Type:             "text",
		Text:             textBody{Body: text},
	}

	var out sendResponse
	if err := g.http.DoJSON(ctx, http.MethodPost, "/"+g.phoneNumberID+"/messages", nil, req, &out); err != nil {
		return "", fmt.Errorf("whatsapp send: %w", err)
	}
	if len(out.Messages) == 0 || strings.TrimSpace(out.Messages[0].ID) == "" {
		return "", ErrNoMessageID
	}
	return out.Messages[0].ID, nil
}

// LogGateway no envía nada: escribe el mensaje en el log y devuelve
// notify.ErrNotDelivered para que el ledger lo registre como SKIPPED.
// Se usa cuando no hay token configurado.
type LogGateway struct {
	log logger.Logger
}

func NewLogGateway(log logger.Logger) *LogGateway {
	if log == nil {
		log = logger.Nop()
	}
	return &LogGateway{log: log.With(map[string]any{"component": "whatsapp_log"})}
}

func (g *LogGateway) Send(_ context.Context, phoneE164, text string) (string, error) {
	g.log.Warn("message not sent (log gateway)", map[string]any{
		"to":   phoneE164,
		"text": text,
	})
	return "", fmt.Errorf("%w: whatsapp token not set", notify.ErrNotDelivered)
}
