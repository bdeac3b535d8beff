package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
)

// ApartmentHandler serves /api/apartments
type ApartmentHandler struct {
	registry  *service.Registry
	validator *Validator
	logger    *slog.Logger
}

// NewApartmentHandler creates a new apartment handler
func NewApartmentHandler(registry *service.Registry, validator *Validator, logger *slog.Logger) *ApartmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApartmentHandler{registry: registry, validator: validator, logger: logger}
}

func (h *ApartmentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/apartments", h.List)
	mux.HandleFunc("POST /api/apartments", h.Create)
	mux.HandleFunc("GET /api/apartments/{id}", h.Get)
	mux.HandleFunc("PATCH /api/apartments/{id}", h.Update)
	mux.HandleFunc("DELETE /api/apartments/{id}", h.Delete)
	mux.HandleFunc("GET /api/apartments/{id}/contracts", h.ListContracts)
}

// List handles GET /api/apartments. ?vacant=true restricts to unoccupied units.
func (h *ApartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	vacant := false
	if v := r.URL.Query().Get("vacant"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "vacant must be a boolean", h.logger)
			return
		}
		vacant = b
	}

	var (
		apts []*domain.Apartment
		err  error
	)
	if vacant {
		apts, err = h.registry.ListVacantApartments(r.Context())
	} else {
		apts, err = h.registry.ListApartments(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, apts, h.logger)
}

// Create handles POST /api/apartments. New apartments always start vacant.
func (h *ApartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a domain.Apartment
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	if !checkValid(w, h.validator.Struct(a), h.logger) {
		return
	}

	created, err := h.registry.AddApartment(r.Context(), a)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *ApartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.GetApartmentByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "apartment not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, a, h.logger)
}

// Update handles PATCH /api/apartments/{id}; occupancy is not patchable
func (h *ApartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch domain.ApartmentPatch
	if _, err := decodePatch(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}

	current, err := h.registry.GetApartmentByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "apartment not found", h.logger)
		return
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if !checkValid(w, h.validator.Struct(merged), h.logger) {
		return
	}

	updated, err := h.registry.UpdateApartment(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "apartment not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

func (h *ApartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registry.DeleteApartment(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "apartment is referenced by contracts", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApartmentHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.registry.GetContractsByApartmentID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contracts, h.logger)
}
