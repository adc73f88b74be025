//go:build pprof

package profile

// Option applies a configuration option to a control under construction.
type Option func(control) control

// apply folds opts over c in order.
func apply(c control, opts ...Option) control {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// newControl creates a control from the provided options.
func newControl(opts ...Option) control {
	var c control

	return apply(c, opts...)
}
