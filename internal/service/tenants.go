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

func (r *Registry) AddTenant(ctx context.Context, t domain.Tenant) (_ *domain.Tenant, err error) {
	ctx, end := r.begin(ctx, "tenant", "add")
	defer end(&err)

	t.ID = newID("tenant")
	if err := r.store.Tenants().Create(ctx, &t); err != nil {
		return nil, err
	}
	r.logger.Info("tenant added", slog.String("tenant_id", t.ID))
	return &t, nil
}

func (r *Registry) UpdateTenant(ctx context.Context, id string, patch domain.TenantPatch) (_ *domain.Tenant, err error) {
	ctx, end := r.begin(ctx, "tenant", "update", attribute.String("tenant_id", id))
	defer end(&err)

	t, err := lookup(r.store.Tenants().GetByID(ctx, id))
	if err != nil || t == nil {
		return nil, err
	}
	patch.Apply(t)
	if err := r.store.Tenants().Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// DeleteTenant removes the tenant unless a contract references it.
func (r *Registry) DeleteTenant(ctx context.Context, id string) (_ bool, err error) {
	ctx, end := r.begin(ctx, "tenant", "delete", attribute.String("tenant_id", id))
	defer end(&err)

	contracts, err := r.store.Contracts().ListByTenant(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check contracts of tenant %s: %w", id, err)
	}
	if len(contracts) > 0 {
		metrics.ObserveBlockedDelete("tenant")
		r.logger.Info("tenant delete blocked",
			slog.String("tenant_id", id),
			slog.Int("contracts", len(contracts)),
		)
		return false, nil
	}

	if err := r.store.Tenants().Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	r.logger.Info("tenant deleted", slog.String("tenant_id", id))
	return true, nil
}

func (r *Registry) GetTenantByID(ctx context.Context, id string) (_ *domain.Tenant, err error) {
	ctx, end := r.begin(ctx, "tenant", "get", attribute.String("tenant_id", id))
	defer end(&err)

	return lookup(r.store.Tenants().GetByID(ctx, id))
}

func (r *Registry) ListTenants(ctx context.Context) (_ []*domain.Tenant, err error) {
	ctx, end := r.begin(ctx, "tenant", "list")
	defer end(&err)

	return r.store.Tenants().List(ctx)
}

func (r *Registry) requireTenant(ctx context.Context, id string) error {
	_, err := r.store.Tenants().GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("tenant %q: %w", id, domain.ErrReferenceNotFound)
	}
	return err
}
