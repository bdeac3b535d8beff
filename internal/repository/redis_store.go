package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/infrastructure/redis"
)

// RedisStore keeps each record as a JSON document under "<kind>:<id>" and the
// insertion order in a list under "<kind>:ids".
type RedisStore struct {
	redis  *redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a store on a connected client
func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{redis: client, logger: logger}
}

func (s *RedisStore) Properties() domain.PropertyRepository {
	return &redisRepository[domain.Property]{redis: s.redis, logger: s.logger, kind: "property",
		id: func(p *domain.Property) string { return p.ID }}
}

func (s *RedisStore) Apartments() domain.ApartmentRepository {
	return &redisApartmentRepository{redisRepository[domain.Apartment]{redis: s.redis, logger: s.logger, kind: "apartment",
		id: func(a *domain.Apartment) string { return a.ID }}}
}

func (s *RedisStore) Tenants() domain.TenantRepository {
	return &redisRepository[domain.Tenant]{redis: s.redis, logger: s.logger, kind: "tenant",
		id: func(t *domain.Tenant) string { return t.ID }}
}

func (s *RedisStore) Contracts() domain.ContractRepository {
	return &redisContractRepository{redisRepository[domain.Contract]{redis: s.redis, logger: s.logger, kind: "contract",
		id: func(c *domain.Contract) string { return c.ID }}}
}

func (s *RedisStore) Ping(ctx context.Context) error { return s.redis.Ping(ctx) }

func (s *RedisStore) Close() error { return s.redis.Close() }

type redisRepository[E any] struct {
	redis  *redis.Client
	logger *slog.Logger
	kind   string
	id     func(*E) string
}

func (r *redisRepository[E]) key(id string) string { return r.kind + ":" + id }
func (r *redisRepository[E]) indexKey() string     { return r.kind + ":ids" }

func (r *redisRepository[E]) Create(ctx context.Context, e *E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", r.kind, err)
	}
	id := r.id(e)
	created, err := r.redis.SetNX(ctx, r.key(id), string(data))
	if err != nil {
		return fmt.Errorf("failed to store %s: %w", r.kind, err)
	}
	if !created {
		return fmt.Errorf("duplicate %s id %q", r.kind, id)
	}
	if err := r.redis.RPush(ctx, r.indexKey(), id); err != nil {
		return fmt.Errorf("failed to index %s: %w", r.kind, err)
	}
	r.logger.Debug("record stored", slog.String("kind", r.kind), slog.String("id", id))
	return nil
}

func (r *redisRepository[E]) GetByID(ctx context.Context, id string) (*E, error) {
	data, err := r.redis.Get(ctx, r.key(id))
	if err != nil {
		if redis.IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.kind, err)
	}
	var e E
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", r.kind, err)
	}
	return &e, nil
}

// Update overwrites the document; the index list is untouched so order is kept.
func (r *redisRepository[E]) Update(ctx context.Context, e *E) error {
	id := r.id(e)
	exists, err := r.redis.Exists(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", r.kind, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", r.kind, err)
	}
	if err := r.redis.Set(ctx, r.key(id), string(data), 0); err != nil {
		return fmt.Errorf("failed to store %s: %w", r.kind, err)
	}
	return nil
}

func (r *redisRepository[E]) Delete(ctx context.Context, id string) error {
	existed, err := r.redis.Delete(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind, err)
	}
	if !existed {
		return domain.ErrNotFound
	}
	if err := r.redis.LRem(ctx, r.indexKey(), id); err != nil {
		return fmt.Errorf("failed to unindex %s: %w", r.kind, err)
	}
	return nil
}

func (r *redisRepository[E]) List(ctx context.Context) ([]*E, error) {
	return r.filter(ctx, nil)
}

func (r *redisRepository[E]) filter(ctx context.Context, keep func(*E) bool) ([]*E, error) {
	ids, err := r.redis.LRange(ctx, r.indexKey(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", r.kind, err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	values, err := r.redis.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %ss: %w", r.kind, err)
	}

	out := make([]*E, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a document
			continue
		}
		var e E
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			r.logger.Warn("skipping unreadable record",
				slog.String("kind", r.kind),
				slog.String("error", err.Error()),
			)
			continue
		}
		if keep == nil || keep(&e) {
			out = append(out, &e)
		}
	}
	return out, nil
}

type redisApartmentRepository struct {
	redisRepository[domain.Apartment]
}

func (r *redisApartmentRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.Apartment, error) {
	return r.filter(ctx, func(a *domain.Apartment) bool { return a.PropertyID == propertyID })
}

type redisContractRepository struct {
	redisRepository[domain.Contract]
}

func (r *redisContractRepository) ListByApartment(ctx context.Context, apartmentID string) ([]*domain.Contract, error) {
	return r.filter(ctx, func(c *domain.Contract) bool { return c.ApartmentID == apartmentID })
}

func (r *redisContractRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Contract, error) {
	return r.filter(ctx, func(c *domain.Contract) bool { return c.TenantID == tenantID })
}
