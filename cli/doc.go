// Package cli contains the command line interface for pyx.
//
// # Usage
//
//	pyx [flags] <command> [args]
//
// Without a command, pyx transpiles the named file (or standard input) to
// standard output:
//
//	pyx page.pyx
//	pyx build --filter '!hidden'
//	pyx load --path src ui.nav
//
// # Project File
//
// Flag defaults are read from pyx.hcl in the user configuration directory
// (for example ~/.config/pyx/pyx.hcl) and then from pyx.hcl in the working
// directory. See package [github.com/ardnew/pyx/project] for
// the file format. Command-line flags override both.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/pyx/pprof)
package cli
