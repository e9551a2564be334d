package templates

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, catalog Catalog) {
	r.Route("/templates", func(tr chi.Router) {
		tr.Get("/", listTemplatesHandler(catalog))
		tr.Get("/{templateID}", getTemplateHandler(catalog))
		tr.Post("/{templateID}/preview", previewTemplateHandler(catalog))
	})
}

type previewResponse struct {
	TemplateID string `json:"template_id"`
	Text       string `json:"text"`
}

// listTemplatesHandler godoc
// @Summary Listar plantillas
// @Description Catálogo fijo de plantillas de mensaje. Las cuentas eligen una para sus recordatorios, no pueden editarlas.
// @Tags templates
// @Produce json
// @Success 200 {array} Template
// @Router /templates [get]
func listTemplatesHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalog.List())
	}
}

// getTemplateHandler godoc
// @Summary Obtener plantilla
// @Tags templates
// @Produce json
// @Param templateID path string true "ID de la plantilla (ej: FRIENDLY_V1)"
// @Success 200 {object} Template
// @Failure 404 {string} string "template not found"
// @Router /templates/{templateID} [get]
func getTemplateHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := catalog.Get(chi.URLParam(r, "templateID"))
		if err != nil {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// previewTemplateHandler godoc
// @Summary Previsualizar plantilla
// @Description Renderiza la plantilla con los datos enviados. Los placeholders sin valor quedan vacíos.
// @Tags templates
// @Accept json
// @Produce json
// @Param templateID path string true "ID de la plantilla"
// @Param payload body Data true "Valores de los placeholders"
// @Success 200 {object} previewResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "template not found"
// @Router /templates/{templateID}/preview [post]
func previewTemplateHandler(catalog Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := catalog.Get(chi.URLParam(r, "templateID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "template not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		var d Data
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, previewResponse{TemplateID: t.ID, Text: Compose(t, d)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
