//go:build !pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skiff/log"
	"github.com/ardnew/skiff/pkg"
	"github.com/ardnew/skiff/profile"
)

// pprofConfig keeps the profiling flags visible when built without the
// pprof tag, but start never arms a profiler.
type pprofConfig struct {
	Mode  string `default:""            help:"Enable profiling (requires ${pprofTag} build tag)" short:"p"`
	Dir   string `default:"${pprofDir}" help:"Profile output directory"                          type:"path"`
	Quiet bool   `default:"true"        help:"Suppress profiler messages"                        negatable:""`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofTag": profile.Tag,
		"pprofDir": filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start is a no-op when built without the pprof tag.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode != "" {
		log.WarnContext(ctx, "profiling unavailable",
			slog.String("mode", f.Mode),
			slog.String("build_tag", profile.Tag),
		)
	}

	return func() {}
}
