package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

// collection is an insertion-ordered slice guarded by a RWMutex.
// Records are cloned on the way in and out so callers never share state with the store.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	id    func(T) string
	clone func(T) T
}

func newCollection[T any](id func(T) string, clone func(T) T) *collection[T] {
	return &collection[T]{id: id, clone: clone}
}

func (c *collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if c.id(item) == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) insert(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(c.id(item)) >= 0 {
		return fmt.Errorf("duplicate id %q", c.id(item))
	}
	c.items = append(c.items, c.clone(item))
	return nil
}

func (c *collection[T]) get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.clone(c.items[i]), nil
	}
	var zero T
	return zero, domain.ErrNotFound
}

// replace overwrites the record in place so list order is preserved.
func (c *collection[T]) replace(item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(c.id(item))
	if i < 0 {
		return domain.ErrNotFound
	}
	c.items[i] = c.clone(item)
	return nil
}

func (c *collection[T]) remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *collection[T]) filter(keep func(T) bool) []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*T, 0, len(c.items))
	for _, item := range c.items {
		if keep == nil || keep(item) {
			cp := c.clone(item)
			out = append(out, &cp)
		}
	}
	return out
}

// MemoryStore keeps all four collections in process memory.
type MemoryStore struct {
	properties *collection[domain.Property]
	apartments *collection[domain.Apartment]
	tenants    *collection[domain.Tenant]
	contracts  *collection[domain.Contract]
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties: newCollection(func(p domain.Property) string { return p.ID }, domain.Property.Clone),
		apartments: newCollection(func(a domain.Apartment) string { return a.ID }, domain.Apartment.Clone),
		tenants:    newCollection(func(t domain.Tenant) string { return t.ID }, domain.Tenant.Clone),
		contracts:  newCollection(func(c domain.Contract) string { return c.ID }, domain.Contract.Clone),
	}
}

func (s *MemoryStore) Properties() domain.PropertyRepository {
	return &memoryPropertyRepository{c: s.properties}
}

func (s *MemoryStore) Apartments() domain.ApartmentRepository {
	return &memoryApartmentRepository{c: s.apartments}
}

func (s *MemoryStore) Tenants() domain.TenantRepository {
	return &memoryTenantRepository{c: s.tenants}
}

func (s *MemoryStore) Contracts() domain.ContractRepository {
	return &memoryContractRepository{c: s.contracts}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

type memoryPropertyRepository struct {
	c *collection[domain.Property]
}

func (r *memoryPropertyRepository) Create(_ context.Context, p *domain.Property) error {
	return r.c.insert(*p)
}

func (r *memoryPropertyRepository) GetByID(_ context.Context, id string) (*domain.Property, error) {
	p, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *memoryPropertyRepository) Update(_ context.Context, p *domain.Property) error {
	return r.c.replace(*p)
}

func (r *memoryPropertyRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *memoryPropertyRepository) List(_ context.Context) ([]*domain.Property, error) {
	return r.c.filter(nil), nil
}

type memoryApartmentRepository struct {
	c *collection[domain.Apartment]
}

func (r *memoryApartmentRepository) Create(_ context.Context, a *domain.Apartment) error {
	return r.c.insert(*a)
}

func (r *memoryApartmentRepository) GetByID(_ context.Context, id string) (*domain.Apartment, error) {
	a, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *memoryApartmentRepository) Update(_ context.Context, a *domain.Apartment) error {
	return r.c.replace(*a)
}

func (r *memoryApartmentRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *memoryApartmentRepository) List(_ context.Context) ([]*domain.Apartment, error) {
	return r.c.filter(nil), nil
}

func (r *memoryApartmentRepository) ListByProperty(_ context.Context, propertyID string) ([]*domain.Apartment, error) {
	return r.c.filter(func(a domain.Apartment) bool { return a.PropertyID == propertyID }), nil
}

type memoryTenantRepository struct {
	c *collection[domain.Tenant]
}

func (r *memoryTenantRepository) Create(_ context.Context, t *domain.Tenant) error {
	return r.c.insert(*t)
}

func (r *memoryTenantRepository) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	t, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *memoryTenantRepository) Update(_ context.Context, t *domain.Tenant) error {
	return r.c.replace(*t)
}

func (r *memoryTenantRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *memoryTenantRepository) List(_ context.Context) ([]*domain.Tenant, error) {
	return r.c.filter(nil), nil
}

type memoryContractRepository struct {
	c *collection[domain.Contract]
}

func (r *memoryContractRepository) Create(_ context.Context, c *domain.Contract) error {
	return r.c.insert(*c)
}

func (r *memoryContractRepository) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	c, err := r.c.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *memoryContractRepository) Update(_ context.Context, c *domain.Contract) error {
	return r.c.replace(*c)
}

func (r *memoryContractRepository) Delete(_ context.Context, id string) error {
	return r.c.remove(id)
}

func (r *memoryContractRepository) List(_ context.Context) ([]*domain.Contract, error) {
	return r.c.filter(nil), nil
}

func (r *memoryContractRepository) ListByApartment(_ context.Context, apartmentID string) ([]*domain.Contract, error) {
	return r.c.filter(func(c domain.Contract) bool { return c.ApartmentID == apartmentID }), nil
}

func (r *memoryContractRepository) ListByTenant(_ context.Context, tenantID string) ([]*domain.Contract, error) {
	return r.c.filter(func(c domain.Contract) bool { return c.TenantID == tenantID }), nil
}
