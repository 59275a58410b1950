// Package profile starts optional runtime profiling of the pyx command
// using [github.com/pkg/profile].
//
// Profiling is selected at run time by mode name; an empty mode disables it
// and [Profiler.Start] returns a no-op stopper.
//
//	stop, err := profile.Profiler{Mode: "cpu", Dir: "/tmp/pyx"}.Start()
//	if err != nil {
//		return err
//	}
//	defer stop.Stop()
//
// The profile is written to Dir as <mode>.pprof and can be inspected with
// go tool pprof.
package profile
