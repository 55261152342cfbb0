package didi

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// instanceCache is a composer's registry of constructed values, keyed by
// provider ID. Construction for a key runs at most once at a time; callers
// racing on the same key wait for and share that one construction.
type instanceCache struct {
	instances map[string]any
	mu        sync.RWMutex
	inflight  singleflight.Group
}

// newInstanceCache creates a new instance cache
func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[string]any),
	}
}

// get retrieves an instance from the cache
func (c *instanceCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[key]
	return instance, ok
}

// set stores an instance in the cache
func (c *instanceCache) set(key string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[key] = instance
}

// getOrCreate returns the cached instance for key, calling create when there
// is none. A failed create leaves the key empty so the next call retries.
// created is true only for the caller whose create produced the value.
func (c *instanceCache) getOrCreate(key string, create func() (any, error)) (instance any, created bool, err error) {
	if instance, ok := c.get(key); ok {
		return instance, false, nil
	}

	instance, err, _ = c.inflight.Do(key, func() (any, error) {
		if instance, ok := c.get(key); ok {
			return instance, nil
		}

		instance, err := create()
		if err != nil {
			return nil, err
		}

		c.set(key, instance)
		created = true
		return instance, nil
	})

	return instance, created, err
}

// clear removes all instances from the cache
func (c *instanceCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[string]any)
}
