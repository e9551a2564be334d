package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vet-care-reminders/internal/config"
	"vet-care-reminders/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGateway struct {
	mu   sync.Mutex
	sent []string
}

func (g *recordingGateway) Send(_ context.Context, phone, text string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, phone+"|"+text)
	return "wamid." + phone, nil
}

func (g *recordingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

func newServer(t *testing.T) (*httptest.Server, *recordingGateway) {
	t.Helper()
	cfg := config.Config{}
	config.ApplyDefaults(&cfg)

	gw := &recordingGateway{}
	// 09:00 en Asia/Kolkata.
	now := time.Date(2024, time.June, 10, 3, 30, 0, 0, time.UTC)
	app, err := router.New(context.Background(), router.Options{
		Config:  cfg,
		Gateway: gw,
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ts := httptest.NewServer(app.Handler)
	t.Cleanup(ts.Close)
	return ts, gw
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

type report struct {
	DryRun       bool `json:"dry_run"`
	Animals      int  `json:"animals"`
	Sent         int  `json:"sent"`
	Skipped      int  `json:"skipped"`
	AlreadyFired int  `json:"already_fired"`
	Deliveries   []struct {
		Window string `json:"window"`
		Phone  string `json:"phone"`
		Text   string `json:"text"`
	} `json:"deliveries"`
}

func TestHTTP_EndToEnd_ReminderFlow(t *testing.T) {
	ts, gw := newServer(t)
	const clinic = "clinic-1"

	// 1) Cuenta de clínica con plantilla FRIENDLY_V2
	st, body := doReq(t, ts.URL, http.MethodPut, "/me/account", clinic, map[string]any{
		"type":        "CLINIC",
		"clinic_name": "Happy Paws",
		"contact":     "+91 90000 00000",
		"template_id": "friendly_v2",
	})
	require.Equal(t, http.StatusOK, st, string(body))

	// 2) Tutor
	st, body = doReq(t, ts.URL, http.MethodPost, "/owners", clinic, map[string]any{
		"name":  "Asha",
		"phone": "98765 43210",
	})
	require.Equal(t, http.StatusCreated, st, string(body))
	owner := decode[struct {
		ID string `json:"id"`
	}](t, body)

	// 3) Animal con vacuna que vence mañana
	st, body = doReq(t, ts.URL, http.MethodPost, "/animals", clinic, map[string]any{
		"owner_id": owner.ID,
		"name":     "Bruno",
		"species":  "dog",
		"vaccine":  map[string]any{"label": "Rabies", "stage": "ANNUAL", "next_due_date": "2024-06-11"},
	})
	require.Equal(t, http.StatusCreated, st, string(body))
	animal := decode[struct {
		ID string `json:"id"`
	}](t, body)

	// 4) Otra cuenta no lo ve
	st, _ = doReq(t, ts.URL, http.MethodGet, "/animals/"+animal.ID, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, st)

	// 5) Buckets
	st, body = doReq(t, ts.URL, http.MethodGet, "/schedule/buckets", clinic, nil)
	require.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "ONE_DAY")

	// 6) Dry-run: compone pero no envía
	st, body = doReq(t, ts.URL, http.MethodPost, "/notifications/run?dry_run=true", clinic, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	rep := decode[report](t, body)
	assert.True(t, rep.DryRun)
	require.Len(t, rep.Deliveries, 1)
	assert.Equal(t, "ONE_DAY", rep.Deliveries[0].Window)
	assert.Contains(t, rep.Deliveries[0].Text, "Hi Asha 😊")
	assert.Contains(t, rep.Deliveries[0].Text, "Happy Paws")
	assert.Zero(t, gw.count())

	// 7) Pasada real
	st, body = doReq(t, ts.URL, http.MethodPost, "/notifications/run", clinic, nil)
	require.Equal(t, http.StatusOK, st, string(body))
	rep = decode[report](t, body)
	assert.Equal(t, 1, rep.Sent)
	require.Equal(t, 1, gw.count())
	assert.True(t, strings.HasPrefix(gw.sent[0], "+919876543210|"))

	// 8) Segunda pasada el mismo día: nada nuevo
	st, body = doReq(t, ts.URL, http.MethodPost, "/notifications/run", clinic, nil)
	require.Equal(t, http.StatusOK, st)
	rep = decode[report](t, body)
	assert.Equal(t, 0, rep.Sent)
	assert.Equal(t, 1, rep.AlreadyFired)
	assert.Equal(t, 1, gw.count())

	// 9) Ledger y dashboard
	st, body = doReq(t, ts.URL, http.MethodGet, "/reminders", clinic, nil)
	require.Equal(t, http.StatusOK, st)
	entries := decode[[]map[string]any](t, body)
	require.Len(t, entries, 1)
	assert.Equal(t, "SENT", entries[0]["outcome"])

	st, body = doReq(t, ts.URL, http.MethodPost, "/reminders/"+animal.ID+"/VACCINE/ONE_DAY/visited", clinic, nil)
	require.Equal(t, http.StatusOK, st, string(body))

	st, body = doReq(t, ts.URL, http.MethodGet, "/dashboard/today", clinic, nil)
	require.Equal(t, http.StatusOK, st)
	sum := decode[map[string]any](t, body)
	assert.Equal(t, float64(1), sum["total_sent"])
	assert.Equal(t, float64(1), sum["vaccine_sent"])
}

func TestHTTP_UpdateAndDeleteAnimal(t *testing.T) {
	ts, _ := newServer(t)
	const clinic = "clinic-1"

	st, body := doReq(t, ts.URL, http.MethodPost, "/animals", clinic, map[string]any{
		"owner_id": "owner-1",
		"name":     "Misu",
		"species":  "cat",
		"vaccine":  map[string]any{"label": "FVRCP", "stage": "1ST", "next_due_date": "2024-06-20"},
	})
	require.Equal(t, http.StatusCreated, st, string(body))
	created := decode[struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
	}](t, body)
	path := "/animals/" + created.ID

	st, body = doReq(t, ts.URL, http.MethodPatch, path, clinic, map[string]any{
		"breed":   "Siamese",
		"version": created.Version,
	})
	require.Equal(t, http.StatusOK, st, string(body))
	upd := decode[struct {
		Animal struct {
			Name       string                    `json:"name"`
			Breed      string                    `json:"breed"`
			Version    int64                     `json:"version"`
			Activities map[string]map[string]any `json:"activities"`
		} `json:"animal"`
		Changed bool `json:"changed"`
	}](t, body)
	assert.True(t, upd.Changed)
	assert.Equal(t, "Misu", upd.Animal.Name)
	assert.Equal(t, "Siamese", upd.Animal.Breed)
	assert.Equal(t, "FVRCP", upd.Animal.Activities["VACCINE"]["label"])

	// Versión vieja.
	st, _ = doReq(t, ts.URL, http.MethodPatch, path, clinic, map[string]any{"name": "Tom", "version": created.Version})
	assert.Equal(t, http.StatusConflict, st)

	st, _ = doReq(t, ts.URL, http.MethodPatch, path, clinic, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, st)

	// Otra cuenta no puede borrarlo.
	st, _ = doReq(t, ts.URL, http.MethodDelete, path, "someone-else", nil)
	assert.Equal(t, http.StatusNotFound, st)

	st, _ = doReq(t, ts.URL, http.MethodDelete, path, clinic, nil)
	assert.Equal(t, http.StatusNoContent, st)

	st, _ = doReq(t, ts.URL, http.MethodGet, path, clinic, nil)
	assert.Equal(t, http.StatusNotFound, st)
	st, _ = doReq(t, ts.URL, http.MethodDelete, path, clinic, nil)
	assert.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_Unauthorized(t *testing.T) {
	ts, _ := newServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/animals"},
		{http.MethodPost, "/notifications/run"},
		{http.MethodGet, "/dashboard/today"},
		{http.MethodGet, "/reminders"},
		{http.MethodGet, "/me/account"},
	} {
		st, _ := doReq(t, ts.URL, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, st, tc.path)
	}
}

func TestHTTP_PlatformRoutes(t *testing.T) {
	ts, _ := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))

	// Una pasada vacía igual observa la duración.
	st, _ = doReq(t, ts.URL, http.MethodPost, "/notifications/run", "acc", nil)
	require.Equal(t, http.StatusOK, st)

	st, body = doReq(t, ts.URL, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "vetcare_dispatch_run_duration_seconds")

	st, body = doReq(t, ts.URL, http.MethodGet, "/templates", "", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Contains(t, string(body), "FRIENDLY_V2")

	st, _ = doReq(t, ts.URL, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, st)
}
