package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/", listRemindersHandler(svc))
		rr.Post("/{animalID}/{kind}/{window}/{flag}", markReminderHandler(svc))
	})
}

// reminderResponse representa una fila del audit log de avisos.
type reminderResponse struct {
	ID           string        `json:"id"`
	AnimalID     string        `json:"animal_id"`
	OwnerID      string        `json:"owner_id"`
	Kind         care.Kind     `json:"kind"`
	Window       Window        `json:"window"`
	Day          calendar.Date `json:"day"`
	Outcome      Outcome       `json:"outcome"`
	MessageID    string        `json:"message_id,omitempty"`
	Error        string        `json:"error,omitempty"`
	Attempts     int           `json:"attempts"`
	SentAt       time.Time     `json:"sent_at"`
	Visited      bool          `json:"visited"`
	ThankYouSent bool          `json:"thank_you_sent"`
	FollowupSent bool          `json:"followup_sent"`
}

// listRemindersHandler godoc
// @Summary Listar avisos de un día
// @Description Devuelve los avisos registrados (SENT, FAILED o SKIPPED) de la cuenta autenticada cuyo envío cae dentro del día civil indicado. Sin `day` se usa el día actual en la zona horaria configurada.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param day query string false "Día civil YYYY-MM-DD"
// @Success 200 {array} reminderResponse
// @Failure 400 {string} string "day inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /reminders [get]
func listRemindersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		day, err := calendar.ParseDate(r.URL.Query().Get("day"))
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		items, err := svc.ListDay(r.Context(), accountID, day)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reminderResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toReminderResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markReminderHandler godoc
// @Summary Marcar un aviso
// @Description Marca un aviso ya registrado como visitado, con agradecimiento enviado o con seguimiento enviado. Es idempotente.
// @Tags reminders
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param kind path string true "VACCINE o DEWORMING"
// @Param window path string true "SEVEN_DAY, ONE_DAY, TODAY, MISSED o THANKYOU"
// @Param flag path string true "visited, thank-you o follow-up"
// @Param day query string false "Día civil YYYY-MM-DD del aviso (por defecto hoy)"
// @Success 200 {object} reminderResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reminder not found"
// @Failure 500 {string} string "internal error"
// @Router /reminders/{animalID}/{kind}/{window}/{flag} [post]
func markReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		kind, ok := care.ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}
		window, ok := ParseWindow(chi.URLParam(r, "window"))
		if !ok {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		flag, ok := ParseFlag(chi.URLParam(r, "flag"))
		if !ok {
			http.Error(w, "invalid flag", http.StatusBadRequest)
			return
		}
		day, err := calendar.ParseDate(r.URL.Query().Get("day"))
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if day.IsZero() {
			day = svc.cal.Today()
		}

		key := Key{AnimalID: chi.URLParam(r, "animalID"), Kind: kind, Window: window, Day: day}

		// No revelar avisos de otra cuenta.
		cur, err := svc.Get(r.Context(), key)
		if err != nil || cur.AccountID != accountID {
			writeError(w, err, "reminder not found")
			return
		}

		e, err := svc.MarkFlag(r.Context(), key, flag)
		if err != nil {
			writeError(w, err, "reminder not found")
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(e))
	}
}

func writeError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		http.Error(w, notFoundMsg, http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toReminderResponse(e Entry) reminderResponse {
	return reminderResponse{
		ID:           e.ID,
		AnimalID:     e.AnimalID,
		OwnerID:      e.OwnerID,
		Kind:         e.Kind,
		Window:       e.Window,
		Day:          e.Day,
		Outcome:      e.Outcome,
		MessageID:    e.MessageID,
		Error:        e.Error,
		Attempts:     e.Attempts,
		SentAt:       e.SentAt,
		Visited:      e.Visited,
		ThankYouSent: e.ThankYouSent,
		FollowupSent: e.FollowupSent,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
