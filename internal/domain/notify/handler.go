package notify

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"vet-care-reminders/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, d *Dispatcher) {
	r.Post("/notifications/run", runNotificationsHandler(d))
}

// runNotificationsHandler godoc
// @Summary Ejecutar pasada de avisos
// @Description Clasifica los animales de la cuenta autenticada y envía los avisos que aún no se dispararon hoy (7 días, 1 día, hoy, agradecimiento, seguimiento de perdidos). Con `dry_run=true` sólo compone los mensajes: no envía ni registra en el ledger.
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param dry_run query bool false "Componer sin enviar"
// @Success 200 {object} Report
// @Failure 400 {string} string "dry_run inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /notifications/run [post]
func runNotificationsHandler(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dryRun := false
		if v := strings.TrimSpace(r.URL.Query().Get("dry_run")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "dry_run must be true or false", http.StatusBadRequest)
				return
			}
			dryRun = b
		}

		rep, err := d.Run(r.Context(), RunOptions{AccountScope: accountID, DryRun: dryRun})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
