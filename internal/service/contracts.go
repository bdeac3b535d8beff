package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/observability/metrics"
)

// AddContract stores c under a fresh id and marks its apartment occupied.
// A missing apartment is skipped silently unless strict references are on.
func (r *Registry) AddContract(ctx context.Context, c domain.Contract) (_ *domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "add",
		attribute.String("apartment_id", c.ApartmentID),
		attribute.String("tenant_id", c.TenantID),
	)
	defer end(&err)

	if r.strict {
		if err := r.requireApartment(ctx, c.ApartmentID); err != nil {
			return nil, err
		}
		if err := r.requireTenant(ctx, c.TenantID); err != nil {
			return nil, err
		}
	}

	c.ID = newID("contract")
	if err := r.store.Contracts().Create(ctx, &c); err != nil {
		return nil, err
	}
	r.logger.Info("contract added",
		slog.String("contract_id", c.ID),
		slog.String("apartment_id", c.ApartmentID),
		slog.String("tenant_id", c.TenantID),
	)

	if err := r.setOccupied(ctx, c.ApartmentID, true); err != nil {
		return nil, fmt.Errorf("contract %s stored but occupancy update failed: %w", c.ID, err)
	}
	return &c, nil
}

// UpdateContract merges patch onto the contract. It returns nil if id is unknown.
// Occupancy is not re-derived, even when the apartment or end date changes.
func (r *Registry) UpdateContract(ctx context.Context, id string, patch domain.ContractPatch) (_ *domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "update", attribute.String("contract_id", id))
	defer end(&err)

	c, err := lookup(r.store.Contracts().GetByID(ctx, id))
	if err != nil || c == nil {
		return nil, err
	}
	patch.Apply(c)
	if err := r.store.Contracts().Update(ctx, c); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// DeleteContract removes the contract and releases its apartment when no other
// contract for that apartment is still active today. It returns false if id is unknown.
func (r *Registry) DeleteContract(ctx context.Context, id string) (_ bool, err error) {
	ctx, end := r.begin(ctx, "contract", "delete", attribute.String("contract_id", id))
	defer end(&err)

	c, err := lookup(r.store.Contracts().GetByID(ctx, id))
	if err != nil {
		return false, err
	}
	if c == nil {
		return false, nil
	}

	siblings, err := r.store.Contracts().ListByApartment(ctx, c.ApartmentID)
	if err != nil {
		return false, fmt.Errorf("failed to check contracts of apartment %s: %w", c.ApartmentID, err)
	}
	today := r.Today()
	stillActive := false
	for _, other := range siblings {
		if other.ID != c.ID && other.IsActiveOn(today) {
			stillActive = true
			break
		}
	}
	if err := r.store.Contracts().Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	// The contract is gone before the apartment is released, so a failed
	// delete never leaves a vacant apartment under a live contract.
	if !stillActive {
		if err := r.setOccupied(ctx, c.ApartmentID, false); err != nil {
			return false, err
		}
	}
	r.logger.Info("contract deleted",
		slog.String("contract_id", id),
		slog.String("apartment_id", c.ApartmentID),
		slog.Bool("apartment_released", !stillActive),
	)
	return true, nil
}

func (r *Registry) GetContractByID(ctx context.Context, id string) (_ *domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "get", attribute.String("contract_id", id))
	defer end(&err)

	return lookup(r.store.Contracts().GetByID(ctx, id))
}

func (r *Registry) GetContractsByApartmentID(ctx context.Context, apartmentID string) (_ []*domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "list_by_apartment", attribute.String("apartment_id", apartmentID))
	defer end(&err)

	return r.store.Contracts().ListByApartment(ctx, apartmentID)
}

func (r *Registry) GetContractsByTenantID(ctx context.Context, tenantID string) (_ []*domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "list_by_tenant", attribute.String("tenant_id", tenantID))
	defer end(&err)

	return r.store.Contracts().ListByTenant(ctx, tenantID)
}

func (r *Registry) ListContracts(ctx context.Context) (_ []*domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "list")
	defer end(&err)

	return r.store.Contracts().List(ctx)
}

// GetActiveContracts returns contracts without an end date or ending today or later.
func (r *Registry) GetActiveContracts(ctx context.Context) (_ []*domain.Contract, err error) {
	ctx, end := r.begin(ctx, "contract", "list_active")
	defer end(&err)

	all, err := r.store.Contracts().List(ctx)
	if err != nil {
		return nil, err
	}
	today := r.Today()
	active := make([]*domain.Contract, 0, len(all))
	for _, c := range all {
		if c.IsActiveOn(today) {
			active = append(active, c)
		}
	}
	return active, nil
}

// setOccupied writes the apartment's occupancy flag when it differs.
// Unknown apartments are ignored.
func (r *Registry) setOccupied(ctx context.Context, apartmentID string, occupied bool) error {
	a, err := lookup(r.store.Apartments().GetByID(ctx, apartmentID))
	if err != nil {
		return err
	}
	if a == nil {
		r.logger.Debug("occupancy update skipped: apartment not found", slog.String("apartment_id", apartmentID))
		return nil
	}
	if a.IsOccupied == occupied {
		return nil
	}
	a.IsOccupied = occupied
	if err := r.store.Apartments().Update(ctx, a); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	metrics.ObserveOccupancy(occupied)
	return nil
}

func (r *Registry) requireApartment(ctx context.Context, id string) error {
	_, err := r.store.Apartments().GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("apartment %q: %w", id, domain.ErrReferenceNotFound)
	}
	return err
}
