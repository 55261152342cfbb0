package didi

// Maker builds a value from resolved keyword arguments.
type Maker[T any] func(args Args) (T, error)

// SingletonProvider constructs its value once per composer and returns the
// cached value afterwards.
type SingletonProvider[T any] struct {
	provider
	maker Maker[T]
}

var _ Value[any] = (*SingletonProvider[any])(nil)

// Singleton declares a cached provider.
//
// Once a composer holds the value, later resolutions return it without
// recomputing the arguments, so changing a dependency's configuration has no
// effect on an already constructed singleton. A maker error is returned as
// is and nothing is cached; the next resolution tries again.
func Singleton[T any](maker Maker[T], kwargs ...Kwarg) *SingletonProvider[T] {
	return &SingletonProvider[T]{
		provider: newProvider(SingletonKind, maker, kwargs),
		maker:    maker,
	}
}

// Named sets the provider's diagnostic name.
func (p *SingletonProvider[T]) Named(name string) *SingletonProvider[T] {
	p.name = name
	return p
}

// Resolve returns the composer's instance, constructing it on first use.
func (p *SingletonProvider[T]) Resolve(c *Composer) (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}

	instance, created, err := c.cache.getOrCreate(p.id, func() (any, error) {
		args, err := p.args(c)
		if err != nil {
			return nil, err
		}

		v, err := p.maker(args)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	if created {
		c.logger.Debug("constructed singleton", "provider", p.name)
	}

	typed, _ := instance.(T)
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func (p *SingletonProvider[T]) MustResolve(c *Composer) T {
	return mustResolve[T](p, c)
}

// Bind returns a zero-argument function resolving p in c.
func (p *SingletonProvider[T]) Bind(c *Composer) func() (T, error) {
	return func() (T, error) {
		return p.Resolve(c)
	}
}

// Get resolves p in the default composer.
func (p *SingletonProvider[T]) Get() (T, error) {
	return p.Resolve(Default())
}

func (p *SingletonProvider[T]) resolveAny(c *Composer) (any, error) {
	return p.Resolve(c)
}

func mustResolve[T any](v Value[T], c *Composer) T {
	value, err := v.Resolve(c)
	if err != nil {
		panic(err)
	}
	return value
}
