package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/service"
)

// ContractHandler serves /api/contracts
type ContractHandler struct {
	registry  *service.Registry
	validator *Validator
	logger    *slog.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(registry *service.Registry, validator *Validator, logger *slog.Logger) *ContractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContractHandler{registry: registry, validator: validator, logger: logger}
}

func (h *ContractHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/contracts", h.Find)
	mux.HandleFunc("POST /api/contracts", h.Create)
	mux.HandleFunc("GET /api/contracts/active", h.Active)
	mux.HandleFunc("GET /api/contracts/expiring", h.Expiring)
	mux.HandleFunc("GET /api/contracts/{id}", h.Get)
	mux.HandleFunc("PATCH /api/contracts/{id}", h.Update)
	mux.HandleFunc("DELETE /api/contracts/{id}", h.Delete)
}

// Find handles GET /api/contracts?status=active|expired|terminating|all&q=term
func (h *ContractHandler) Find(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseContractStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	contracts, err := h.registry.FindContracts(r.Context(), service.ContractQuery{
		Status: status,
		Search: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contracts, h.logger)
}

// Create handles POST /api/contracts and marks the apartment occupied
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c domain.Contract
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	c.EndDate = normalizeDate(c.EndDate)
	if !checkValid(w, h.validator.Struct(c), h.logger) {
		return
	}

	created, err := h.registry.AddContract(r.Context(), c)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created, h.logger)
}

func (h *ContractHandler) Active(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.registry.GetActiveContracts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contracts, h.logger)
}

// Expiring handles GET /api/contracts/expiring?days=N
func (h *ContractHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", h.registry.ExpiringWindow())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	contracts, err := h.registry.ExpiringContracts(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, contracts, h.logger)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.registry.GetContractByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "contract not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c, h.logger)
}

// Update handles PATCH /api/contracts/{id}. "endDate": null or "" makes the
// contract open-ended. Occupancy is left as it is.
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var patch domain.ContractPatch
	nulls, err := decodePatch(w, r, &patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error(), h.logger)
		return
	}
	if nulls["endDate"] || (patch.EndDate != nil && patch.EndDate.IsZero()) {
		patch.EndDate = nil
		patch.ClearEndDate = true
	}

	current, err := h.registry.GetContractByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "contract not found", h.logger)
		return
	}
	merged := current.Clone()
	patch.Apply(&merged)
	if !checkValid(w, h.validator.Struct(merged), h.logger) {
		return
	}

	updated, err := h.registry.UpdateContract(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "contract not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated, h.logger)
}

// Delete handles DELETE /api/contracts/{id}; unknown ids are 404
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.registry.DeleteContract(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "contract not found", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
