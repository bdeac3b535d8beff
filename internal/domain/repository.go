package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrReferenceNotFound is returned in strict reference mode when a foreign id does not resolve.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

// PropertyRepository defines data access for properties.
// List returns records in insertion order; Update keeps a record's position.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Property, error)
}

// ApartmentRepository defines data access for apartments
type ApartmentRepository interface {
	Create(ctx context.Context, a *Apartment) error
	GetByID(ctx context.Context, id string) (*Apartment, error)
	Update(ctx context.Context, a *Apartment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Apartment, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*Apartment, error)
}

// TenantRepository defines data access for tenants
type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Tenant, error)
}

// ContractRepository defines data access for contracts
type ContractRepository interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	Update(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Contract, error)
	ListByApartment(ctx context.Context, apartmentID string) ([]*Contract, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*Contract, error)
}

// Store groups the four collections behind one storage binding.
type Store interface {
	Properties() PropertyRepository
	Apartments() ApartmentRepository
	Tenants() TenantRepository
	Contracts() ContractRepository
	Ping(ctx context.Context) error
	Close() error
}
