// Package digbridge exposes didi providers to a go.uber.org/dig container.
//
// Each bridged value is registered as a dig constructor that resolves the
// provider in a fixed composer, so singletons and resources stay owned by
// the composer and are released by Composer.Close. dig caches the result of
// every constructor it runs, which means a bridged factory is invoked at most
// once per dig container.
//
//	dc := dig.New()
//	err := digbridge.ProvideAll(dc, composer,
//	    digbridge.Bind[*sql.DB](db),
//	    digbridge.Bind[*sql.DB](replica, dig.Name("replica")),
//	)
package digbridge

import (
	"fmt"
	"reflect"

	"github.com/junioryono/didi"
	"go.uber.org/dig"
)

// Provide registers v with dc. The value is resolved in c the first time dig
// needs it.
func Provide[T any](dc *dig.Container, c *didi.Composer, v didi.Value[T], opts ...dig.ProvideOption) error {
	if dc == nil {
		return fmt.Errorf("digbridge: nil dig container")
	}
	if c == nil {
		return didi.ErrNilComposer
	}
	if rv := reflect.ValueOf(v); v == nil || rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Errorf("digbridge: nil value for %s", typeName[T]())
	}

	return dc.Provide(func() (T, error) {
		return v.Resolve(c)
	}, opts...)
}

// Binding is a value paired with its dig options, registered by ProvideAll.
type Binding interface {
	provide(dc *dig.Container, c *didi.Composer) error
}

type binding[T any] struct {
	value didi.Value[T]
	opts  []dig.ProvideOption
}

func (b binding[T]) provide(dc *dig.Container, c *didi.Composer) error {
	return Provide(dc, c, b.value, b.opts...)
}

// Bind pairs v with the dig options used to register it.
func Bind[T any](v didi.Value[T], opts ...dig.ProvideOption) Binding {
	return binding[T]{value: v, opts: opts}
}

// ProvideAll registers every binding, stopping at the first failure.
func ProvideAll(dc *dig.Container, c *didi.Composer, bindings ...Binding) error {
	for i, b := range bindings {
		if b == nil {
			continue
		}
		if err := b.provide(dc, c); err != nil {
			return fmt.Errorf("digbridge: binding %d: %w", i, err)
		}
	}
	return nil
}

// Extract invokes dc and returns the unnamed value of type T.
func Extract[T any](dc *dig.Container) (T, error) {
	var out T
	err := dc.Invoke(func(v T) {
		out = v
	})
	return out, err
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
