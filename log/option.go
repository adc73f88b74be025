package log

import "sync"

// Option applies a configuration option to config.
type Option func(config) config

// apply folds opts over cfg in order, so later options win.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// guarded wraps a config mutation in the config's write lock.
// A zero config receives a fresh lock before mutating.
func guarded(mutate func(config) config) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		return mutate(c)
	}
}
