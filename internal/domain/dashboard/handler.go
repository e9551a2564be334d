package dashboard

import (
	"encoding/json"
	"net/http"

	"vet-care-reminders/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard/today", todayHandler(svc))
}

// todayHandler godoc
// @Summary Resumen del día
// @Description Actividades que vencen hoy, avisos enviados hoy por tipo, agradecimientos, seguimientos de perdidos, completadas hoy y tasa de conversión (completadas / enviados * 100).
// @Tags dashboard
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} Summary
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /dashboard/today [get]
func todayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sum, err := svc.Today(r.Context(), accountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
