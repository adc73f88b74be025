//go:build !pprof

package profile

import "sync"

// Modes returns the list of supported profiling modes. Without the pprof
// build tag no modes are available.
var Modes = sync.OnceValue(
	func() []string { return nil },
)

// start satisfies the call in [Config.Start] when profiling support is
// compiled out. The configured mode is ignored.
func start(_, _ string, _ bool) interface{ Stop() } {
	return ignore{}
}
