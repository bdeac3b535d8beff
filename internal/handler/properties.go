package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
)

// PropertyHandler serves /api/properties
type PropertyHandler struct {
	registry  *service.Registry
	validator *Validator
	logger    *slog.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(registry *service.Registry, validator *Validator, logger *slog.Logger) *PropertyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyHandler{registry: registry, validator: validator, logger: logger}
}

// RegisterRoutes mounts the property endpoints on mux
func (h *PropertyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/properties", h.List)
	mux.HandleFunc("POST /api/properties", h.Create)
	mux.HandleFunc("GET /api/properties/{id}", h.Get)
	mux.HandleFunc("PATCH /api/properties/{id}", h.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", h.Delete)
	mux.HandleFunc("GET /api/properties/{id}/apartments", h.ListApartments)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	props, err := h.registry.ListProperties(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, props, h.logger)
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Property
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	if !h.valid(w, p) {
		return
	}

	created, err := h.registry.AddProperty(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.registry.GetPropertyByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "property not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, p, h.logger)
}

// Update handles PATCH /api/properties/{id}. The merged record must pass validation.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch domain.PropertyPatch
	nulls, err := decodePatch(w, r, &patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	patch.ClearConstructionYear = nulls["constructionYear"]

	current, err := h.registry.GetPropertyByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "property not found", h.logger)
		return
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if !h.valid(w, merged) {
		return
	}

	updated, err := h.registry.UpdateProperty(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "property not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

// Delete handles DELETE /api/properties/{id}; 409 while apartments reference it
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registry.DeleteProperty(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "property still has apartments", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PropertyHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	apts, err := h.registry.GetApartmentsByPropertyID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, apts, h.logger)
}

func (h *PropertyHandler) valid(w http.ResponseWriter, p domain.Property) bool {
	return checkValid(w, h.validator.Struct(p), h.logger)
}

// checkValid writes a 422 for validation failures and reports whether err was nil.
func checkValid(w http.ResponseWriter, err error, logger *slog.Logger) bool {
	if err == nil {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: verr.Fields}, logger)
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error(), logger)
	return false
}
