package didi

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Composer is the composition root that provider declarations resolve in.
//
// It owns the registry of singleton and resource values, so two composers
// never share instances, and it owns the teardowns of its resources, which
// Close runs. A Composer is safe for concurrent use.
type Composer struct {
	id                 string
	logger             *slog.Logger
	preloadConcurrency int

	cache     *instanceCache
	lifecycle *lifecycleManager
	closed    atomic.Bool
}

// New creates an empty composer.
func New(opts ...Option) *Composer {
	options := &composerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(options)
		}
	}

	if options.id == "" {
		options.id = uuid.NewString()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	return &Composer{
		id:                 options.id,
		logger:             options.logger.With("composer", options.id),
		preloadConcurrency: options.preloadConcurrency,
		cache:              newInstanceCache(),
		lifecycle:          newLifecycleManager(),
	}
}

// Resolve resolves v in c.
//
//	svc, err := didi.Resolve[*Service](composer, service)
func Resolve[T any](c *Composer, v Value[T]) (T, error) {
	return v.Resolve(c)
}

// ID returns the composer's ID.
func (c *Composer) ID() string {
	return c.id
}

// Logger returns the composer's logger.
func (c *Composer) Logger() *slog.Logger {
	return c.logger
}

// IsClosed reports whether Close has been called.
func (c *Composer) IsClosed() bool {
	return c.closed.Load()
}

// Resolved reports whether a singleton or resource already holds a value in
// c. It is always false for factories and config references.
func (c *Composer) Resolved(l Lazy) bool {
	d, ok := l.(declared)
	if !ok || isNilLazy(d) || !d.base().kind.Cached() {
		return false
	}

	_, ok = c.cache.get(d.base().id)
	return ok
}

// Preload resolves the given values concurrently, typically at startup so
// that expensive singletons and resources are ready before traffic arrives.
// It returns the first error; ctx cancellation stops values that have not
// started yet.
func (c *Composer) Preload(ctx context.Context, lazies ...Lazy) error {
	if err := c.check(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if c.preloadConcurrency > 0 {
		g.SetLimit(c.preloadConcurrency)
	}

	for _, l := range lazies {
		if isNilLazy(l) {
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.resolveAny(c)
			return err
		})
	}

	return g.Wait()
}

// Close runs the teardown of every resource set up in c, most recent first,
// and drops all cached values. Each teardown runs exactly once; calling Close
// again is a no-op. Once closed, providers refuse to resolve in c.
func (c *Composer) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	errs := c.lifecycle.dispose()
	c.cache.clear()

	if len(errs) > 0 {
		for _, err := range errs {
			c.logger.Error("teardown failed", "error", err)
		}
		return &DisposalError{Composer: c.id, Errors: errs}
	}

	c.logger.Debug("composer closed")
	return nil
}

func (c *Composer) String() string {
	return "Composer(" + c.id + ")"
}

func (c *Composer) check() error {
	if c == nil {
		return ErrNilComposer
	}
	if c.closed.Load() {
		return ErrComposerClosed
	}
	return nil
}
