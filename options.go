package didi

import "log/slog"

// Option configures a Composer.
type Option interface {
	apply(*composerOptions)
}

// composerOptions holds composer configuration.
type composerOptions struct {
	id                 string
	logger             *slog.Logger
	preloadConcurrency int
}

// optionFunc adapts a function to Option.
type optionFunc func(*composerOptions)

func (f optionFunc) apply(opts *composerOptions) {
	f(opts)
}

// WithID overrides the composer's generated ID.
func WithID(id string) Option {
	return optionFunc(func(opts *composerOptions) {
		opts.id = id
	})
}

// WithLogger sets the logger used for construction and teardown records.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(opts *composerOptions) {
		opts.logger = logger
	})
}

// WithPreloadConcurrency limits how many values Preload resolves at once.
// Zero or negative means no limit.
func WithPreloadConcurrency(n int) Option {
	return optionFunc(func(opts *composerOptions) {
		opts.preloadConcurrency = n
	})
}
