// Package profile provides optional runtime profiling for the aspl
// interpreter using [github.com/pkg/profile].
//
// Profiling must be enabled at build time with the "pprof" build tag.
// Without it, [Profiler.Start] returns a no-op and [Modes] is empty.
//
//	go build -tags pprof -o aspl .
//	./aspl --pprof-mode cpu script.aspl
//	./aspl --pprof-mode heap --pprof-dir ./profiles script.aspl
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Profiles are written to the directory named by
// [Profiler.Path] (by default the "pprof" directory under the user cache
// directory when run from the command line), one file per mode such as
// cpu.pprof or mem.pprof:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Programmatic use:
//
//	stop := profile.Profiler{Mode: "cpu", Path: dir}.Start()
//	defer stop.Stop()
package profile
