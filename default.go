package didi

import "sync"

var (
	defaultMu       sync.Mutex
	defaultComposer *Composer
)

// SetDefault sets the composer used by the providers' Get methods.
// This is similar to slog.SetDefault. Pass nil to have Default create a
// fresh composer on its next call.
func SetDefault(c *Composer) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultComposer = c
}

// Default returns the default composer, creating one on first use.
// Resolving through the default composer gives process-wide caching.
func Default() *Composer {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultComposer == nil {
		defaultComposer = New()
	}
	return defaultComposer
}
