// Package didi provides declarative dependency composition for Go applications.
// Providers are declared once, as recipes of a maker plus keyword arguments,
// and a Composer resolves them lazily, constructing each dependency only when
// something asks for it.
//
// # Overview
//
// didi keeps the composition root small and explicit. The library provides:
//   - Three provider kinds: Singleton, Factory and Resource
//   - Config slots whose fields can be referenced before the config exists
//   - Lazy, depth-first resolution of keyword arguments
//   - Per-composer caches and resource teardown on Close
//   - Concurrent warm-up with Preload
//   - Static graph inspection with Inspect
//   - Thread-safe resolution with construct-once guarantees
//
// # Basic Usage
//
// Declare config slots and providers, create a composer, set the config and
// resolve:
//
//	settings := didi.NewConfig[Settings]("settings")
//
//	db := didi.Singleton(func(args didi.Args) (*DB, error) {
//	    return OpenDB(didi.MustArg[string](args, "dsn"))
//	}, didi.Kw("dsn", settings.Ref("db_dsn")))
//
//	repo := didi.Factory(func(args didi.Args) (*Repo, error) {
//	    return &Repo{DB: didi.MustArg[*DB](args, "db")}, nil
//	}, didi.Kw("db", db))
//
//	composer := didi.New()
//	defer composer.Close()
//
//	settings.Set(Settings{DBDsn: "postgres://localhost/app"})
//	r, err := repo.Resolve(composer)
//
// # Provider Kinds
//
//   - Singleton: constructed once per composer and cached
//   - Factory: constructed again on every resolution
//   - Resource: set up once per composer; its teardown runs on Close
//
// # Config Slots
//
// A Config starts unset. Ref returns a placeholder that reads the named
// attribute when it is resolved, so providers can be declared before the
// configuration is loaded. Attribute names come from the exported fields of
// the config type (Go name, snake_case name or `didi` tag) and from
// WithAccessor.
//
// # Keyword Arguments
//
// Kw values that are providers or attribute references are resolved first,
// in declaration order; anything else is passed through untouched. Makers
// read them with Arg or MustArg, or use Construct to fill a parameter struct.
//
// # Thread Safety
//
// A Composer and its providers can be used from multiple goroutines. When
// several goroutines resolve the same singleton or resource for the first
// time, exactly one constructs it and the others receive that instance.
//
// # Error Handling
//
// Errors returned by makers reach the caller unmodified, and a failed
// construction is never cached. The package's own failures are typed:
//   - AttributeError: a config attribute is missing or the config is unset
//   - ArgumentError: a maker read a missing or mistyped argument
//   - DisposalError: one or more teardowns failed during Close
//
// # Inspection
//
// Inspect walks keyword arguments without resolving anything. The returned
// Graph reports construction order and renders as Graphviz DOT or text.
//
// # Limitations
//
// Keyword arguments are fixed when a
// provider is declared, so they cannot form a cycle, but a maker that
// resolves an enclosing singleton or resource through Args.Composer blocks
// instead of failing. A missing configuration surfaces only when an affected
// provider resolves.
package didi
