package didi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Config is a slot for a configuration value that is supplied after the
// providers depending on it have been declared.
//
// A Config starts unset. Until Set is called, Attr hands out AttrRef
// placeholders, so declarations can reference configuration fields before the
// configuration exists:
//
//	settings := didi.NewConfig[Settings]("settings")
//	db := didi.Singleton(NewDB, didi.Kw("dsn", settings.Ref("db_dsn")))
//
//	settings.Set(Settings{DBDsn: "postgres://db"})
//	conn, err := db.Resolve(composer)
//
// Attribute names map to accessor functions. By default every exported field
// of T (or of the struct T points to) is reachable by its Go name, its
// snake_case form and its `didi` tag; WithAccessor adds hand-written ones.
type Config[T any] struct {
	name      string
	accessors map[string]accessor[T]

	mu   sync.RWMutex
	data T
	set  bool
}

type accessor[T any] func(T) (any, bool)

// ConfigOption configures a Config.
type ConfigOption[T any] func(*Config[T])

// WithAccessor registers a named accessor, replacing any field accessor with
// the same name.
func WithAccessor[T any](name string, fn func(T) any) ConfigOption[T] {
	return func(c *Config[T]) {
		c.accessors[name] = func(v T) (any, bool) {
			return fn(v), true
		}
	}
}

// NewConfig creates an unset config slot. The name is used in error messages.
func NewConfig[T any](name string, opts ...ConfigOption[T]) *Config[T] {
	c := &Config[T]{
		name:      name,
		accessors: fieldAccessors[T](),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the slot's name.
func (c *Config[T]) Name() string {
	return c.name
}

// Set stores the configuration value, replacing any previous one.
func (c *Config[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = v
	c.set = true
}

// IsSet reports whether a value has been stored.
func (c *Config[T]) IsSet() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// Get returns the stored value.
func (c *Config[T]) Get() (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		var zero T
		return zero, fmt.Errorf("config %q: %w", c.name, ErrConfigUnset)
	}

	return c.data, nil
}

// MustGet is like Get but panics if the slot is unset.
func (c *Config[T]) MustGet() T {
	v, err := c.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Attr reads the named attribute.
//
// While the slot is unset it returns a fresh *AttrRef and never fails. Once
// set, it forwards to the attribute's accessor and fails with an
// *AttributeError if there is none.
func (c *Config[T]) Attr(name string) (any, error) {
	c.mu.RLock()
	set := c.set
	c.mu.RUnlock()

	if !set {
		return c.Ref(name), nil
	}

	return c.lookup(name)
}

// Ref returns a deferred reference to the named attribute regardless of
// whether the slot has been set.
func (c *Config[T]) Ref(name string) *AttrRef {
	return &AttrRef{slot: c, name: name}
}

// Fields returns the names of all known attributes, sorted.
func (c *Config[T]) Fields() []string {
	names := make([]string, 0, len(c.accessors))
	for name := range c.accessors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config[T]) slotName() string {
	return c.name
}

func (c *Config[T]) lookup(name string) (any, error) {
	c.mu.RLock()
	data, set := c.data, c.set
	c.mu.RUnlock()

	if !set {
		return nil, &AttributeError{Slot: c.name, Name: name, Cause: ErrConfigUnset}
	}

	get, ok := c.accessors[name]
	if !ok {
		return nil, &AttributeError{Slot: c.name, Name: name, Cause: ErrAttributeNotFound}
	}

	v, ok := get(data)
	if !ok {
		return nil, &AttributeError{Slot: c.name, Name: name, Cause: ErrAttributeNotFound}
	}

	return v, nil
}

// attrSource is the type-erased side of a Config that an AttrRef reads from.
type attrSource interface {
	slotName() string
	lookup(name string) (any, error)
}

// AttrRef defers reading one attribute of a config slot until resolution.
// Every resolution reads the slot's current value; nothing is captured when
// the reference is created.
type AttrRef struct {
	slot attrSource
	name string
}

var _ Value[any] = (*AttrRef)(nil)

// Name returns the referenced attribute name.
func (r *AttrRef) Name() string {
	return r.name
}

// Slot returns the name of the referenced config slot.
func (r *AttrRef) Slot() string {
	return r.slot.slotName()
}

// Resolve reads the attribute from the slot. The composer is not consulted
// and may be nil.
func (r *AttrRef) Resolve(*Composer) (any, error) {
	return r.slot.lookup(r.name)
}

func (r *AttrRef) resolveAny(c *Composer) (any, error) {
	return r.Resolve(c)
}

func (r *AttrRef) String() string {
	return fmt.Sprintf("AttrRef(%s.%s)", r.slot.slotName(), r.name)
}

// fieldAccessors builds the default accessor table from T's exported fields.
func fieldAccessors[T any]() map[string]accessor[T] {
	accessors := make(map[string]accessor[T])

	t := reflect.TypeFor[T]()
	isPtr := t.Kind() == reflect.Pointer
	if isPtr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return accessors
	}

	for _, field := range reflect.VisibleFields(t) {
		if !field.IsExported() || field.Anonymous {
			continue
		}

		tag := field.Tag.Get("didi")
		if tag == "-" {
			continue
		}

		index := field.Index
		get := func(v T) (any, bool) {
			rv := reflect.ValueOf(&v).Elem()
			if isPtr {
				if rv.IsNil() {
					return nil, false
				}
				rv = rv.Elem()
			}

			fv, err := rv.FieldByIndexErr(index)
			if err != nil {
				return nil, false
			}
			return fv.Interface(), true
		}

		accessors[field.Name] = get
		accessors[snakeCase(field.Name)] = get
		if tag != "" {
			accessors[tag] = get
		}
	}

	return accessors
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms together:
// APIBaseURL becomes api_base_url.
func snakeCase(s string) string {
	runes := []rune(s)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
