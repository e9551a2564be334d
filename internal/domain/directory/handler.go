package directory

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vet-care-reminders/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners", func(or chi.Router) {
		or.Post("/", createOwnerHandler(svc))
		or.Get("/{ownerID}", getOwnerHandler(svc))
	})

	r.Put("/me/account", putAccountHandler(svc))
	r.Get("/me/account", getAccountHandler(svc))
}

type createOwnerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type ownerResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type accountRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type" enums:"DOCTOR,CLINIC"`
	DoctorName string `json:"doctor_name"`
	ClinicName string `json:"clinic_name"`
	Contact    string `json:"contact"`
	TemplateID string `json:"template_id"`
}

type accountResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       AccountType `json:"type"`
	DoctorName string      `json:"doctor_name"`
	ClinicName string      `json:"clinic_name"`
	Contact    string      `json:"contact"`
	TemplateID string      `json:"template_id"`
}

// createOwnerHandler godoc
// @Summary Registrar tutor
// @Description Registra un tutor (dueño) en la cuenta autenticada. El teléfono se normaliza al enviar avisos.
// @Tags directory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createOwnerRequest true "Datos del tutor"
// @Success 201 {object} ownerResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /owners [post]
func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.CreateOwner(r.Context(), accountID, OwnerInput{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

// getOwnerHandler godoc
// @Summary Obtener tutor
// @Tags directory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param ownerID path string true "ID del tutor"
// @Success 200 {object} ownerResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "owner not found"
// @Router /owners/{ownerID} [get]
func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, err := svc.GetOwner(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil || o.AccountID != accountID {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

// putAccountHandler godoc
// @Summary Configurar perfil de la cuenta
// @Description Crea o reemplaza el perfil de la cuenta autenticada: tipo (DOCTOR o CLINIC), nombres usados como remitente, contacto y plantilla de recordatorio.
// @Tags directory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body accountRequest true "Perfil de la cuenta"
// @Success 200 {object} accountResponse
// @Failure 400 {string} string "invalid json / tipo inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /me/account [put]
func putAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req accountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.PutAccount(r.Context(), accountID, AccountInput{
			Name:       req.Name,
			Type:       req.Type,
			DoctorName: req.DoctorName,
			ClinicName: req.ClinicName,
			Contact:    req.Contact,
			TemplateID: req.TemplateID,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

// getAccountHandler godoc
// @Summary Obtener perfil de la cuenta
// @Tags directory
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} accountResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "account not found"
// @Router /me/account [get]
func getAccountHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetAccount(r.Context(), accountID)
		if err != nil {
			http.Error(w, "account not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toAccountResponse(a))
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		AccountID: o.AccountID,
		Name:      o.Name,
		Phone:     o.Phone,
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
	}
}

func toAccountResponse(a Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Type:       a.Type,
		DoctorName: a.DoctorName,
		ClinicName: a.ClinicName,
		Contact:    a.Contact,
		TemplateID: a.TemplateID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
