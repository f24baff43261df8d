// Package shop implements the account, catalog and inventory operations on
// top of the store package.
package shop

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/cache"
	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/events"
)

// DefaultCacheTTL is used when Options.CacheTTL is zero.
const DefaultCacheTTL = 30 * time.Second

// publishTimeout bounds how long a committed change waits on the event
// publisher.
const publishTimeout = 5 * time.Second

// Options configures the collaborators of a Service. Zero values select an
// in-memory cache, a no-op event publisher and a no-op logger.
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Events   events.Publisher
	Logger   *zap.Logger
}

// Service runs shop operations against a database.
type Service struct {
	db       *sql.DB
	secret   string
	cache    cache.Cache
	cacheTTL time.Duration
	events   events.Publisher
	log      *zap.Logger
	validate *validator.Validate
}

// New returns a Service that signs session tokens with secret.
func New(db *sql.DB, secret string, opts Options) *Service {
	s := &Service{
		db:       db,
		secret:   secret,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		events:   opts.Events,
		log:      opts.Logger,
		validate: newValidator(),
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	if s.cacheTTL <= 0 {
		s.cacheTTL = DefaultCacheTTL
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Ping checks that the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// publish sends an event after a committed change. The change is already
// durable, so a cancelled request must not drop the event. Failures are
// logged and never reach the caller.
func (s *Service) publish(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publishing event failed",
			zap.String("type", event.Type),
			zap.Int64("sweet_id", event.SweetID),
			zap.Error(err),
		)
	}
}

// internal wraps an unclassified error. Errors that already carry a kind are
// returned unchanged.
func internal(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Wrap(errs.Internal, "internal server error", err)
}
