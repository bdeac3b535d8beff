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

// AddApartment stores a under a fresh id. New apartments always start vacant.
func (r *Registry) AddApartment(ctx context.Context, a domain.Apartment) (_ *domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "add", attribute.String("property_id", a.PropertyID))
	defer end(&err)

	if r.strict {
		if err := r.requireProperty(ctx, a.PropertyID); err != nil {
			return nil, err
		}
	}

	a.ID = newID("apt")
	a.IsOccupied = false
	if a.Amenities == nil {
		a.Amenities = []string{}
	}
	if err := r.store.Apartments().Create(ctx, &a); err != nil {
		return nil, err
	}
	r.logger.Info("apartment added",
		slog.String("apartment_id", a.ID),
		slog.String("property_id", a.PropertyID),
	)
	return &a, nil
}

// UpdateApartment merges patch onto the apartment. It returns nil if id is unknown.
// Occupancy cannot be changed here.
func (r *Registry) UpdateApartment(ctx context.Context, id string, patch domain.ApartmentPatch) (_ *domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "update", attribute.String("apartment_id", id))
	defer end(&err)

	a, err := lookup(r.store.Apartments().GetByID(ctx, id))
	if err != nil || a == nil {
		return nil, err
	}
	patch.Apply(a)
	if err := r.store.Apartments().Update(ctx, a); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// DeleteApartment removes the apartment unless a contract references it.
// An unknown id counts as deleted.
func (r *Registry) DeleteApartment(ctx context.Context, id string) (_ bool, err error) {
	ctx, end := r.begin(ctx, "apartment", "delete", attribute.String("apartment_id", id))
	defer end(&err)

	contracts, err := r.store.Contracts().ListByApartment(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check contracts of apartment %s: %w", id, err)
	}
	if len(contracts) > 0 {
		metrics.ObserveBlockedDelete("apartment")
		r.logger.Info("apartment delete blocked",
			slog.String("apartment_id", id),
			slog.Int("contracts", len(contracts)),
		)
		return false, nil
	}

	if err := r.store.Apartments().Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	r.logger.Info("apartment deleted", slog.String("apartment_id", id))
	return true, nil
}

// GetApartmentByID returns the apartment or nil.
func (r *Registry) GetApartmentByID(ctx context.Context, id string) (_ *domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "get", attribute.String("apartment_id", id))
	defer end(&err)

	return lookup(r.store.Apartments().GetByID(ctx, id))
}

// GetApartmentsByPropertyID returns the property's apartments in insertion order.
func (r *Registry) GetApartmentsByPropertyID(ctx context.Context, propertyID string) (_ []*domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "list_by_property", attribute.String("property_id", propertyID))
	defer end(&err)

	return r.store.Apartments().ListByProperty(ctx, propertyID)
}

// ListApartments returns every apartment in insertion order.
func (r *Registry) ListApartments(ctx context.Context) (_ []*domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "list")
	defer end(&err)

	return r.store.Apartments().List(ctx)
}

// ListVacantApartments returns the apartments not marked occupied.
func (r *Registry) ListVacantApartments(ctx context.Context) (_ []*domain.Apartment, err error) {
	ctx, end := r.begin(ctx, "apartment", "list_vacant")
	defer end(&err)

	all, err := r.store.Apartments().List(ctx)
	if err != nil {
		return nil, err
	}
	vacant := make([]*domain.Apartment, 0, len(all))
	for _, a := range all {
		if !a.IsOccupied {
			vacant = append(vacant, a)
		}
	}
	return vacant, nil
}

func (r *Registry) requireProperty(ctx context.Context, id string) error {
	_, err := r.store.Properties().GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("property %q: %w", id, domain.ErrReferenceNotFound)
	}
	return err
}
