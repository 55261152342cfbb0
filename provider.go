package didi

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// provider is the part shared by all provider kinds: an identity, a
// diagnostic name, and the keyword arguments fixed at declaration.
type provider struct {
	id     string
	name   string
	kind   Kind
	kwargs []Kwarg
}

func newProvider(kind Kind, maker any, kwargs []Kwarg) provider {
	if isNilFunc(maker) {
		panic(ErrNilMaker)
	}

	return provider{
		id:     uuid.NewString(),
		name:   funcName(maker),
		kind:   kind,
		kwargs: copyKwargs(kwargs),
	}
}

// ID returns the provider's unique identity. Composers key their caches on it.
func (p *provider) ID() string {
	return p.id
}

// Name returns the provider's diagnostic name. It defaults to the maker's
// function name.
func (p *provider) Name() string {
	return p.name
}

// Kind returns the provider's lifecycle policy.
func (p *provider) Kind() Kind {
	return p.kind
}

// Kwargs returns a copy of the declared keyword arguments.
func (p *provider) Kwargs() []Kwarg {
	kwargs := make([]Kwarg, len(p.kwargs))
	copy(kwargs, p.kwargs)
	return kwargs
}

func (p *provider) base() *provider {
	return p
}

func (p *provider) args(c *Composer) (Args, error) {
	return resolveKwargs(c, p.name, p.kwargs)
}

// declared is implemented by every provider kind.
type declared interface {
	Lazy
	base() *provider
}

func isNilFunc(fn any) bool {
	if fn == nil {
		return true
	}
	v := reflect.ValueOf(fn)
	return v.Kind() == reflect.Func && v.IsNil()
}

func isNilLazy(l Lazy) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// funcName returns the short name of fn, e.g. "didi_test.NewDB".
func funcName(fn any) string {
	name := "(unknown)"
	if f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); f != nil {
		name = f.Name()
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
