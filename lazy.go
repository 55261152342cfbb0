package didi

import (
	"fmt"
	"reflect"
)

// Lazy is anything a Composer can turn into a concrete value on demand.
//
// The set of implementations is closed: config attribute references and the
// three provider kinds. A keyword argument whose value implements Lazy is
// resolved before the maker that receives it is called.
type Lazy interface {
	resolveAny(c *Composer) (any, error)
}

// Value is the typed view of a Lazy.
type Value[T any] interface {
	Lazy

	// Resolve produces the value within the given composer, resolving every
	// lazy dependency first.
	Resolve(c *Composer) (T, error)
}

// Kwarg is a single named argument of a provider declaration.
// Value may be a plain value or a Lazy.
type Kwarg struct {
	Name  string
	Value any
}

// Kw declares a keyword argument.
//
//	db := didi.Singleton(NewDB, didi.Kw("dsn", settings.Ref("db_dsn")))
func Kw(name string, value any) Kwarg {
	return Kwarg{Name: name, Value: value}
}

// Args holds the resolved keyword arguments handed to a maker.
type Args struct {
	composer *Composer
	provider string
	names    []string
	values   map[string]any
}

// Composer returns the composer the arguments were resolved in.
func (a Args) Composer() *Composer {
	return a.composer
}

// Names returns the argument names in declaration order.
func (a Args) Names() []string {
	names := make([]string, len(a.names))
	copy(names, a.names)
	return names
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a.names)
}

// Get returns the resolved value of the named argument.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Map returns a copy of the arguments as a plain map.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a.values))
	for k, v := range a.values {
		m[k] = v
	}
	return m
}

// Arg returns the named argument converted to V.
// A nil argument yields the zero value of V.
func Arg[V any](a Args, name string) (V, error) {
	var zero V

	raw, ok := a.values[name]
	if !ok {
		return zero, &ArgumentError{Provider: a.provider, Name: name, Cause: ErrArgumentNotFound}
	}

	if raw == nil {
		return zero, nil
	}

	typed, ok := raw.(V)
	if !ok {
		return zero, &ArgumentError{
			Provider: a.provider,
			Name:     name,
			Expected: reflect.TypeFor[V](),
			Actual:   reflect.TypeOf(raw),
		}
	}

	return typed, nil
}

// MustArg is like Arg but panics on error.
func MustArg[V any](a Args, name string) V {
	v, err := Arg[V](a, name)
	if err != nil {
		panic(err)
	}
	return v
}

// resolveKwargs resolves every lazy argument in declaration order.
func resolveKwargs(c *Composer, provider string, kwargs []Kwarg) (Args, error) {
	args := Args{
		composer: c,
		provider: provider,
		names:    make([]string, 0, len(kwargs)),
		values:   make(map[string]any, len(kwargs)),
	}

	for _, kw := range kwargs {
		v := kw.Value
		if lazy, ok := v.(Lazy); ok {
			if isNilLazy(lazy) {
				return Args{}, &ArgumentError{Provider: provider, Name: kw.Name, Cause: ErrNilProvider}
			}
			resolved, err := lazy.resolveAny(c)
			if err != nil {
				return Args{}, err
			}
			v = resolved
		}

		args.names = append(args.names, kw.Name)
		args.values[kw.Name] = v
	}

	return args, nil
}

// copyKwargs freezes a declaration's arguments. A repeated name replaces the
// earlier value but keeps its position.
func copyKwargs(kwargs []Kwarg) []Kwarg {
	out := make([]Kwarg, 0, len(kwargs))
	index := make(map[string]int, len(kwargs))

	for _, kw := range kwargs {
		if kw.Name == "" {
			panic(fmt.Sprintf("didi: keyword argument with empty name (value %T)", kw.Value))
		}
		if i, ok := index[kw.Name]; ok {
			out[i].Value = kw.Value
			continue
		}
		index[kw.Name] = len(out)
		out = append(out, kw)
	}

	return out
}
