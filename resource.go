package didi

// ResourceMaker sets up a value and returns the teardown that releases it.
// The teardown may be nil.
type ResourceMaker[T any] func(args Args) (T, Teardown, error)

// ResourceProvider sets up its value once per composer. The teardown is
// owned by the composer and runs exactly once, when the composer is closed;
// resolving never runs it.
type ResourceProvider[T any] struct {
	provider
	maker ResourceMaker[T]
}

var _ Value[any] = (*ResourceProvider[any])(nil)

// Resource declares a setup/teardown provider.
//
//	api := didi.Resource(func(args didi.Args) (*APIClient, didi.Teardown, error) {
//	    client := NewAPIClient(didi.MustArg[string](args, "base_url"))
//	    return client, client.Close, nil
//	}, didi.Kw("base_url", settings.Ref("api_base_url")))
//
// A maker error is returned as is; nothing is cached and no teardown is
// registered.
func Resource[T any](maker ResourceMaker[T], kwargs ...Kwarg) *ResourceProvider[T] {
	return &ResourceProvider[T]{
		provider: newProvider(ResourceKind, maker, kwargs),
		maker:    maker,
	}
}

// Named sets the provider's diagnostic name.
func (p *ResourceProvider[T]) Named(name string) *ResourceProvider[T] {
	p.name = name
	return p
}

// Resolve returns the composer's resource, setting it up on first use.
func (p *ResourceProvider[T]) Resolve(c *Composer) (T, error) {
	var zero T
	if err := c.check(); err != nil {
		return zero, err
	}

	instance, created, err := c.cache.getOrCreate(p.id, func() (any, error) {
		args, err := p.args(c)
		if err != nil {
			return nil, err
		}

		v, teardown, err := p.maker(args)
		if err != nil {
			return nil, err
		}

		if !c.lifecycle.track(p.name, teardown) {
			// Closed while setting up.
			if teardown != nil {
				if err := teardown(); err != nil {
					c.logger.Error("teardown failed", "provider", p.name, "error", err)
				}
			}
			return nil, ErrComposerClosed
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	if created {
		c.logger.Debug("acquired resource", "provider", p.name)
	}

	typed, _ := instance.(T)
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func (p *ResourceProvider[T]) MustResolve(c *Composer) T {
	return mustResolve[T](p, c)
}

// Bind returns a zero-argument function resolving p in c.
func (p *ResourceProvider[T]) Bind(c *Composer) func() (T, error) {
	return func() (T, error) {
		return p.Resolve(c)
	}
}

// Get resolves p in the default composer.
func (p *ResourceProvider[T]) Get() (T, error) {
	return p.Resolve(Default())
}

func (p *ResourceProvider[T]) resolveAny(c *Composer) (any, error) {
	return p.Resolve(c)
}
