package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/spipe/log"
	"github.com/ardnew/spipe/pkg"
	"github.com/ardnew/spipe/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the command in the given mode." placeholder:"${enum}"`
	Dir  string `default:"${pprofDir}"                          help:"Directory profiles are written to."                       type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Dir),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// config returns the profiler configuration selected by the flags. The
// profiler itself never logs; start reports in its place.
func (f pprofConfig) config() profile.Config {
	return func() (string, string, bool) { return f.Mode, f.Dir, true }
}

// start starts the profiler and returns the function that stops it. It does
// nothing unless a mode was given.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	log.DebugContext(ctx, "profiling started", attrs...)

	profiler := f.config().Start()

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "profiling stopped", attrs...)
	}
}
