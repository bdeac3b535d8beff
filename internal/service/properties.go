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

// AddProperty stores p under a fresh id and returns the stored record.
func (r *Registry) AddProperty(ctx context.Context, p domain.Property) (_ *domain.Property, err error) {
	ctx, end := r.begin(ctx, "property", "add")
	defer end(&err)

	p.ID = newID("prop")
	if err := r.store.Properties().Create(ctx, &p); err != nil {
		return nil, err
	}
	r.logger.Info("property added", slog.String("property_id", p.ID), slog.String("name", p.Name))
	return &p, nil
}

// UpdateProperty merges patch onto the property. It returns nil if id is unknown.
func (r *Registry) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (_ *domain.Property, err error) {
	ctx, end := r.begin(ctx, "property", "update", attribute.String("property_id", id))
	defer end(&err)

	p, err := lookup(r.store.Properties().GetByID(ctx, id))
	if err != nil || p == nil {
		return nil, err
	}
	patch.Apply(p)
	if err := r.store.Properties().Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// DeleteProperty removes the property unless apartments still reference it,
// in which case it returns false. An unknown id counts as deleted.
func (r *Registry) DeleteProperty(ctx context.Context, id string) (_ bool, err error) {
	ctx, end := r.begin(ctx, "property", "delete", attribute.String("property_id", id))
	defer end(&err)

	apartments, err := r.store.Apartments().ListByProperty(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check apartments of property %s: %w", id, err)
	}
	if len(apartments) > 0 {
		metrics.ObserveBlockedDelete("property")
		r.logger.Info("property delete blocked",
			slog.String("property_id", id),
			slog.Int("apartments", len(apartments)),
		)
		return false, nil
	}

	if err := r.store.Properties().Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	r.logger.Info("property deleted", slog.String("property_id", id))
	return true, nil
}

// GetPropertyByID returns the property or nil.
func (r *Registry) GetPropertyByID(ctx context.Context, id string) (_ *domain.Property, err error) {
	ctx, end := r.begin(ctx, "property", "get", attribute.String("property_id", id))
	defer end(&err)

	return lookup(r.store.Properties().GetByID(ctx, id))
}

// ListProperties returns every property in insertion order.
func (r *Registry) ListProperties(ctx context.Context) (_ []*domain.Property, err error) {
	ctx, end := r.begin(ctx, "property", "list")
	defer end(&err)

	return r.store.Properties().List(ctx)
}
