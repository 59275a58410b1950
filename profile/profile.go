package profile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pkg/profile"
)

// Tag names the profiling output directory under the user cache directory.
const Tag = "pprof"

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported profiling modes in sorted order.
func Modes() []string {
	return slices.Sorted(maps.Keys(modes))
}

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

type ignore struct{}

func (ignore) Stop() {}

// Profiler configures a profiling session.
type Profiler struct {
	// Mode is one of [Modes], or empty to disable profiling.
	Mode string
	// Dir is the output directory. The current directory is used if empty.
	Dir string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling. Stop must be called to flush the profile.
func (p Profiler) Start() (Stopper, error) {
	if p.Mode == "" {
		return ignore{}, nil
	}

	mode, ok := modes[p.Mode]
	if !ok {
		return nil, fmt.Errorf("unknown profiling mode %q", p.Mode)
	}

	opts := []func(*profile.Profile){mode, profile.NoShutdownHook}

	if p.Dir != "" {
		opts = append(opts, profile.ProfilePath(p.Dir))
	}

	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...), nil
}
