package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
)

// TenantHandler serves /api/tenants
type TenantHandler struct {
	registry  *service.Registry
	validator *Validator
	logger    *slog.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(registry *service.Registry, validator *Validator, logger *slog.Logger) *TenantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TenantHandler{registry: registry, validator: validator, logger: logger}
}

func (h *TenantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/tenants", h.List)
	mux.HandleFunc("POST /api/tenants", h.Create)
	mux.HandleFunc("GET /api/tenants/{id}", h.Get)
	mux.HandleFunc("PATCH /api/tenants/{id}", h.Update)
	mux.HandleFunc("DELETE /api/tenants/{id}", h.Delete)
	mux.HandleFunc("GET /api/tenants/{id}/contracts", h.ListContracts)
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.registry.ListTenants(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, tenants, h.logger)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t domain.Tenant
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	t.DateOfBirth = normalizeDate(t.DateOfBirth)
	if !checkValid(w, h.validator.Struct(t), h.logger) {
		return
	}

	created, err := h.registry.AddTenant(r.Context(), t)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.registry.GetTenantByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "tenant not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, t, h.logger)
}

// Update handles PATCH /api/tenants/{id}. "dateOfBirth": null or "" removes the date.
func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch domain.TenantPatch
	nulls, err := decodePatch(w, r, &patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	if nulls["dateOfBirth"] || (patch.DateOfBirth != nil && patch.DateOfBirth.IsZero()) {
		patch.DateOfBirth = nil
		patch.ClearDateOfBirth = true
	}

	current, err := h.registry.GetTenantByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "tenant not found", h.logger)
		return
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if !checkValid(w, h.validator.Struct(merged), h.logger) {
		return
	}

	updated, err := h.registry.UpdateTenant(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "tenant not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registry.DeleteTenant(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "tenant is referenced by contracts", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TenantHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.registry.GetContractsByTenantID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contracts, h.logger)
}
