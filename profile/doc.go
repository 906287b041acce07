// Package profile provides optional runtime profiling for molang.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// # Modes
//
//   - allocs:    memory allocations (all allocations)
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       general memory
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// The molang command exposes the same settings as flags:
//
//	molang --pprof-mode=cpu --pprof-dir=./profiles eval -f bench.mol
//
// Profile files are named after the mode (cpu.pprof, mem.pprof, and so on)
// and are read with go tool pprof:
//
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering its
// handlers on [net/http.DefaultServeMux].
package profile
