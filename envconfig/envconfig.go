// Package envconfig fills a didi config slot from environment variables and
// .env files.
//
// Fields are bound with github.com/caarlos0/env tags:
//
//	type Settings struct {
//	    DBDsn   string        `env:"DB_DSN" envDefault:"postgres://localhost/app"`
//	    APIKey  string        `env:"API_KEY,required"`
//	    Timeout time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
//	    Hosts   []string      `env:"HOSTS"` // comma separated
//	    Mail    MailSettings  `envPrefix:"MAIL_"`
//	}
//
//	settings := didi.NewConfig[Settings]("settings")
//	if err := envconfig.Load(settings); err != nil {
//	    log.Fatal(err)
//	}
//
// Process environment variables take precedence over .env files, and a
// missing .env file is not an error, so the same code runs in production
// where configuration comes from the real environment. An empty variable
// counts as unset.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/junioryono/didi"
)

var (
	// ErrNotStruct is returned when the target type is not a struct.
	ErrNotStruct = errors.New("envconfig: target must be a struct")

	// ErrRequired is returned when a required variable is not set.
	ErrRequired = errors.New("required variable is not set")

	// ErrUnsupportedType is returned for fields of a type that cannot be parsed.
	ErrUnsupportedType = errors.New("unsupported field type")
)

// FieldError reports a field that could not be populated. Missing required
// variables carry Var, values that failed to parse carry Field.
type FieldError struct {
	Field string
	Var   string
	Cause error
}

func (e *FieldError) Error() string {
	switch {
	case e.Var == "":
		return fmt.Sprintf("envconfig: field %s: %v", e.Field, e.Cause)
	case e.Field == "":
		return fmt.Sprintf("envconfig: %s: %v", e.Var, e.Cause)
	default:
		return fmt.Sprintf("envconfig: field %s (%s): %v", e.Field, e.Var, e.Cause)
	}
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// Option configures Parse and Load.
type Option func(*options)

type options struct {
	files   []string
	environ map[string]string
}

// Files sets the .env files to read. Defaults to ".env".
func Files(files ...string) Option {
	return func(o *options) {
		o.files = files
	}
}

// Environment replaces the process environment as the source of variables
// that override the files.
func Environment(vars map[string]string) Option {
	return func(o *options) {
		o.environ = vars
	}
}

// Load parses T and stores it in slot.
func Load[T any](slot *didi.Config[T], opts ...Option) error {
	v, err := Parse[T](opts...)
	if err != nil {
		return err
	}

	slot.Set(v)
	return nil
}

// Parse builds a T from the environment and .env files.
func Parse[T any](opts ...Option) (T, error) {
	var zero T

	o := &options{files: []string{".env"}}
	for _, opt := range opts {
		opt(o)
	}
	if o.environ == nil {
		o.environ = processEnv()
	}

	vars, err := readFiles(o.files)
	if err != nil {
		return zero, err
	}

	for k, v := range o.environ {
		vars[k] = v
	}
	for k, v := range vars {
		if v == "" {
			delete(vars, k)
		}
	}

	var out T
	if err := env.ParseWithOptions(&out, env.Options{Environment: vars}); err != nil {
		return zero, translate(err)
	}

	return out, nil
}

// readFiles reads .env files in order; later files do not override earlier
// ones, matching godotenv.Load.
func readFiles(files []string) (map[string]string, error) {
	vars := make(map[string]string)

	for _, file := range files {
		read, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("envconfig: read %s: %w", file, err)
		}

		for k, v := range read {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}

	return vars, nil
}

func processEnv() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// translate maps the decoder's aggregate error onto FieldError and the
// package sentinels.
func translate(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return fmt.Errorf("envconfig: %w", err)
	}

	errs := make([]error, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		errs = append(errs, translateOne(e))
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

func translateOne(err error) error {
	var (
		notSet   env.VarIsNotSetError
		empty    env.EmptyVarError
		parse    env.ParseError
		noParser env.NoParserError
		notPtr   env.NotStructPtrError
	)

	switch {
	case errors.As(err, &notSet):
		return &FieldError{Var: notSet.Key, Cause: ErrRequired}
	case errors.As(err, &empty):
		return &FieldError{Var: empty.Key, Cause: ErrRequired}
	case errors.As(err, &noParser):
		return &FieldError{Field: noParser.Name, Cause: fmt.Errorf("%w: %s", ErrUnsupportedType, noParser.Type)}
	case errors.As(err, &parse):
		return &FieldError{Field: parse.Name, Cause: parse.Err}
	case errors.As(err, &notPtr):
		return ErrNotStruct
	default:
		return fmt.Errorf("envconfig: %w", err)
	}
}
