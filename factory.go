package didi

// FactoryProvider constructs a new value on every resolution.
type FactoryProvider[T any] struct {
	provider
	maker Maker[T]
}

var _ Value[any] = (*FactoryProvider[any])(nil)

// Factory declares an uncached provider. Every resolution recomputes the
// arguments (cached dependencies are read, not rebuilt) and calls the maker.
func Factory[T any](maker Maker[T], kwargs ...Kwarg) *FactoryProvider[T] {
	return &FactoryProvider[T]{
		provider: newProvider(FactoryKind, maker, kwargs),
		maker:    maker,
	}
}

// Named sets the provider's diagnostic name.
func (p *FactoryProvider[T]) Named(name string) *FactoryProvider[T] {
	p.name = name
	return p
}

// Resolve constructs a fresh value.
func (p *FactoryProvider[T]) Resolve(c *Composer) (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}

	args, err := p.args(c)
	if err != nil {
		return zero, err
	}

	return p.maker(args)
}

// MustResolve is like Resolve but panics on error.
func (p *FactoryProvider[T]) MustResolve(c *Composer) T {
	return mustResolve[T](p, c)
}

// Bind returns a zero-argument function resolving p in c.
func (p *FactoryProvider[T]) Bind(c *Composer) func() (T, error) {
	return func() (T, error) {
		return p.Resolve(c)
	}
}

// Get resolves p in the default composer.
func (p *FactoryProvider[T]) Get() (T, error) {
	return p.Resolve(Default())
}

func (p *FactoryProvider[T]) resolveAny(c *Composer) (any, error) {
	return p.Resolve(c)
}
