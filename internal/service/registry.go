package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
	"github.com/aryan0dhankhar/rentalregistry/internal/featureflags"
	"github.com/aryan0dhankhar/rentalregistry/internal/observability/metrics"
)

// FlagStrictReferences enables foreign-id checks on add (FLAG_STRICT_REFERENCES).
const FlagStrictReferences = "strict_references"

// DefaultExpiringWindowDays is how far ahead an end date counts as terminating.
const DefaultExpiringWindowDays = 30

// Registry owns properties, apartments, tenants and contracts and enforces the
// rules between them: guarded deletes and contract-driven apartment occupancy.
//
// Not-found is reported as a nil result and blocked deletes as false; errors are
// reserved for storage failures. Read-then-write sequences are not atomic.
type Registry struct {
	store          domain.Store
	logger         *slog.Logger
	now            func() time.Time
	strict         bool
	expiringWindow int
	tracer         trace.Tracer
}

// Option configures a Registry
type Option func(*Registry)

// WithClock sets the source of "today" for active/expired decisions.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithStrictReferences makes adds fail when a referenced record is missing.
func WithStrictReferences(strict bool) Option {
	return func(r *Registry) { r.strict = strict }
}

// WithExpiringWindow sets the terminating window in days.
func WithExpiringWindow(days int) Option {
	return func(r *Registry) {
		if days >= 0 {
			r.expiringWindow = days
		}
	}
}

// NewRegistry creates a registry over store. Strict references default to the
// FLAG_STRICT_REFERENCES feature flag.
func NewRegistry(store domain.Store, logger *slog.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		store:          store,
		logger:         logger,
		now:            time.Now,
		strict:         featureflags.Enabled(FlagStrictReferences),
		expiringWindow: DefaultExpiringWindowDays,
		tracer:         otel.Tracer("github.com/aryan0dhankhar/rentalregistry/internal/service"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the registry's current calendar date.
func (r *Registry) Today() domain.Date {
	return domain.DateOf(r.now())
}

// ExpiringWindow returns the terminating window in days.
func (r *Registry) ExpiringWindow() int {
	return r.expiringWindow
}

// Ping checks the storage binding.
func (r *Registry) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// begin opens a span for one registry operation. The returned func records the
// outcome; pass it the operation's named error.
func (r *Registry) begin(ctx context.Context, entity, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, entity+"."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		result := "ok"
		if errp != nil && *errp != nil {
			result = "error"
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		metrics.ObserveOperation(entity, op, result, time.Since(start))
		span.End()
	}
}

// lookup maps domain.ErrNotFound to a nil result.
func lookup[T any](v *T, err error) (*T, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
