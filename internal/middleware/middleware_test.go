package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vet-care-reminders/internal/platform/logger"
	"vet-care-reminders/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	switch token {
	case "clinic":
		return auth.Claims{UserID: "u1", AccountID: "clinic-1"}, nil
	case "doctor":
		return auth.Claims{UserID: "u2"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

func accountEcho(w http.ResponseWriter, r *http.Request) {
	acc, ok := AccountID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write([]byte(acc))
}

func TestAuthContext_DevMode(t *testing.T) {
	h := AuthContext(nil)(http.HandlerFunc(accountEcho))

	cases := []struct {
		name    string
		headers map[string]string
		status  int
		body    string
	}{
		{"no header", nil, http.StatusUnauthorized, ""},
		{"user is account", map[string]string{"X-Debug-User-ID": "u1"}, http.StatusOK, "u1"},
		{"explicit account", map[string]string{"X-Debug-User-ID": "u1", "X-Debug-Account-ID": "clinic-1"}, http.StatusOK, "clinic-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.body, rec.Body.String())
		})
	}
}

func TestAuthContext_VerifierMode(t *testing.T) {
	h := AuthContext(stubVerifier{})(http.HandlerFunc(accountEcho))

	do := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		req.Header.Set("X-Debug-User-ID", "ignored")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, "clinic-1", do("Bearer clinic").Body.String())
	assert.Equal(t, "u2", do("bearer doctor").Body.String())
	assert.Equal(t, http.StatusUnauthorized, do("Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, do("").Code)
}

func TestRecover_LogsAndReturns500(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core, "test")

	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/animals", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	entries := logs.FilterMessage("panic recovered").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "boom", entries[0].ContextMap()["panic"])
		assert.Equal(t, "/animals", entries[0].ContextMap()["path"])
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core, "test")

	h := AuthContext(nil)(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})))
	req := httptest.NewRequest(http.MethodPost, "/notifications/run", nil)
	req.Header.Set("X-Debug-User-ID", "acc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(http.StatusServiceUnavailable), fields["status"])
		assert.Equal(t, "acc", fields["account_id"])
	}
}
