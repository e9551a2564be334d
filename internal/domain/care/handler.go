package care

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc))

		ar.Put("/{animalID}/activities/{kind}", scheduleNextHandler(svc))
		ar.Post("/{animalID}/activities/{kind}/complete", completeHandler(svc))
		ar.Post("/{animalID}/activities/{kind}/thank-you", thankYouHandler(svc))

		// Corrección administrativa del historial.
		ar.Delete("/{animalID}/history/{kind}/{index}", removeHistoryHandler(svc))
	})

	r.Get("/schedule/buckets", bucketsHandler(svc))
}

// cycleRequest describe un ciclo a agendar. Para desparasitación stage va vacío.
type cycleRequest struct {
	Label       string `json:"label"`
	Stage       string `json:"stage" enums:"1ST,2ND,3RD,4TH,ANNUAL,CUSTOM"`
	CustomStage string `json:"custom_stage"`
	NextDueDate string `json:"next_due_date"` // YYYY-MM-DD
}

type createAnimalRequest struct {
	OwnerID   string        `json:"owner_id"`
	Name      string        `json:"name"`
	Species   string        `json:"species" enums:"dog,cat"`
	Breed     string        `json:"breed"`
	Vaccine   *cycleRequest `json:"vaccine,omitempty"`
	Deworming *cycleRequest `json:"deworming,omitempty"`
}

type updateAnimalRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string `json:"name"`
	Breed   *string `json:"breed"`
	OwnerID *string `json:"owner_id"`
	// Version opcional: si viene, debe coincidir con la guardada.
	Version int64 `json:"version"`
}

type completeRequest struct {
	CompletionDate string `json:"completion_date"` // YYYY-MM-DD, opcional (hoy)
}

type animalResponse struct {
	ID         string                  `json:"id"`
	AccountID  string                  `json:"account_id"`
	OwnerID    string                  `json:"owner_id"`
	Name       string                  `json:"name"`
	Species    Species                 `json:"species"`
	Breed      string                  `json:"breed"`
	Activities map[Kind]ActivityState  `json:"activities"`
	History    map[Kind][]HistoryEvent `json:"history"`
	Version    int64                   `json:"version"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

type mutationResponse struct {
	Animal  animalResponse `json:"animal"`
	Changed bool           `json:"changed"`
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description Registra un animal en la cuenta autenticada, opcionalmente con su primer ciclo de vacuna y/o desparasitación. Todo se valida antes de guardar.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createAnimalRequest true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			AccountID: accountID,
			OwnerID:   req.OwnerID,
			Name:      req.Name,
			Species:   Species(req.Species),
			Breed:     req.Breed,
		}
		if req.Vaccine != nil {
			c, err := req.Vaccine.toCycle()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			in.Vaccine = &c
		}
		if req.Deworming != nil {
			c, err := req.Deworming.toCycle()
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			in.Deworming = &c
		}

		a, err := svc.Create(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animales de la cuenta
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByAccount(r.Context(), accountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Description Devuelve el animal con el ciclo actual de cada actividad y su historial.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Editar ficha del animal
// @Description Actualiza nombre, raza o dueño. Con version, falla con 409 si otro cambio llegó antes.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param payload body updateAnimalRequest true "Campos a cambiar"
// @Success 200 {object} mutationResponse
// @Failure 400 {string} string "invalid json / datos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Failure 409 {string} string "conflict"
// @Router /animals/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}

		var req updateAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, changed, err := svc.UpdateProfile(r.Context(), a.ID, UpdateProfileInput{
			Name:            req.Name,
			Breed:           req.Breed,
			OwnerID:         req.OwnerID,
			ExpectedVersion: req.Version,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mutationResponse{Animal: toAnimalResponse(updated), Changed: changed})
	}
}

// deleteAnimalHandler godoc
// @Summary Borrar animal
// @Description Borra el animal junto con sus ciclos e historial.
// @Tags animals
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Success 204
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), a.ID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// scheduleNextHandler godoc
// @Summary Agendar siguiente ciclo
// @Description Reemplaza el ciclo actual de la actividad. El ciclo anterior queda archivado en el historial. Reenviar el mismo ciclo pendiente no cambia nada.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param kind path string true "VACCINE o DEWORMING"
// @Param payload body cycleRequest true "Nuevo ciclo"
// @Success 200 {object} mutationResponse
// @Failure 400 {string} string "invalid json / ciclo inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Failure 409 {string} string "conflict"
// @Router /animals/{animalID}/activities/{kind} [put]
func scheduleNextHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		kind, ok := ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}

		var req cycleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		c, err := req.toCycle()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, changed, err := svc.ScheduleNext(r.Context(), a.ID, kind, c)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mutationResponse{Animal: toAnimalResponse(updated), Changed: changed})
	}
}

// completeHandler godoc
// @Summary Completar ciclo
// @Description Marca el ciclo actual como completado y lo registra en el historial. Es idempotente: completar dos veces no duplica el evento.
// @Tags animals
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param kind path string true "VACCINE o DEWORMING"
// @Param payload body completeRequest false "Fecha de completado (por defecto hoy)"
// @Success 200 {object} mutationResponse
// @Failure 400 {string} string "kind / fecha inválida"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal o actividad no encontrada"
// @Failure 409 {string} string "conflict"
// @Router /animals/{animalID}/activities/{kind}/complete [post]
func completeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		kind, ok := ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}

		var req completeRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}
		date, err := calendar.ParseDate(req.CompletionDate)
		if err != nil {
			http.Error(w, "completion_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		if date.IsZero() {
			date = svc.Calendar().Today()
		}

		updated, changed, err := svc.Complete(r.Context(), a.ID, kind, date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mutationResponse{Animal: toAnimalResponse(updated), Changed: changed})
	}
}

// thankYouHandler godoc
// @Summary Marcar agradecimiento enviado
// @Description Marca que ya se envió el agradecimiento del ciclo actual (p.ej. enviado a mano). Idempotente.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param kind path string true "VACCINE o DEWORMING"
// @Success 200 {object} mutationResponse
// @Failure 400 {string} string "invalid kind"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal o actividad no encontrada"
// @Router /animals/{animalID}/activities/{kind}/thank-you [post]
func thankYouHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		kind, ok := ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}

		updated, changed, err := svc.MarkThankYouSent(r.Context(), a.ID, kind)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mutationResponse{Animal: toAnimalResponse(updated), Changed: changed})
	}
}

// removeHistoryHandler godoc
// @Summary Borrar entrada del historial
// @Description Corrección administrativa: elimina la entrada en la posición indicada (0-based) del historial de la actividad.
// @Tags animals
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param animalID path string true "ID del animal"
// @Param kind path string true "VACCINE o DEWORMING"
// @Param index path int true "Posición en el historial"
// @Success 200 {object} animalResponse
// @Failure 400 {string} string "kind / index inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal o entrada no encontrada"
// @Router /animals/{animalID}/history/{kind}/{index} [delete]
func removeHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := loadOwned(w, r, svc)
		if !ok {
			return
		}
		kind, ok := ParseKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "invalid kind", http.StatusBadRequest)
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "invalid index", http.StatusBadRequest)
			return
		}

		updated, err := svc.RemoveHistory(r.Context(), a.ID, kind, index)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(updated))
	}
}

// bucketsHandler godoc
// @Summary Clasificar animales de la cuenta
// @Description Recalcula hoy los buckets (SEVEN_DAY, ONE_DAY, TODAY, THANKYOU, MISSED) de cada animal de la cuenta. Sólo aparecen animales con algún bucket. No envía mensajes; sí registra en el historial los ciclos perdidos.
// @Tags schedule
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} Classification
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /schedule/buckets [get]
func bucketsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := middleware.AccountID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		res, err := svc.ClassifyAll(r.Context(), accountID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// loadOwned resuelve el animal del path y verifica que sea de la cuenta autenticada.
// Escribe la respuesta de error y devuelve false si no corresponde.
func loadOwned(w http.ResponseWriter, r *http.Request, svc *Service) (Animal, bool) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return Animal{}, false
	}

	a, err := svc.Get(r.Context(), chi.URLParam(r, "animalID"))
	if err != nil || a.AccountID != accountID {
		// No revelar animales de otra cuenta.
		http.Error(w, "animal not found", http.StatusNotFound)
		return Animal{}, false
	}
	return a, true
}

func (c cycleRequest) toCycle() (Cycle, error) {
	due, err := calendar.ParseDate(c.NextDueDate)
	if err != nil {
		return Cycle{}, errors.New("next_due_date must be YYYY-MM-DD")
	}
	return Cycle{
		Label:       c.Label,
		Stage:       Stage(c.Stage),
		CustomStage: c.CustomStage,
		NextDueDate: due,
	}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "conflict", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAnimalResponse(a Animal) animalResponse {
	acts := make(map[Kind]ActivityState, len(a.Activities))
	for k, st := range a.Activities {
		acts[k] = st
	}
	hist := make(map[Kind][]HistoryEvent, len(a.History))
	for k, l := range a.History {
		hist[k] = append([]HistoryEvent(nil), l...)
	}
	return animalResponse{
		ID:         a.ID,
		AccountID:  a.AccountID,
		OwnerID:    a.OwnerID,
		Name:       a.Name,
		Species:    a.Species,
		Breed:      a.Breed,
		Activities: acts,
		History:    hist,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
