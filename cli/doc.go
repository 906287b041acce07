// Package cli contains the command line interface for molang.
//
// # Usage
//
// Without a subcommand, arguments are evaluated as a script:
//
//	molang 'math.clamp(12, 0, 10) * 2'
//	molang eval -f spawn.mol -s speed=2
//	molang call -S 'num(num a, num b)' -e 'return a * b;' 6 7
//	molang fmt json spawn.mol
//	molang repl
//
// # Engine configuration
//
// Globals shared by every script (bindings, script functions and expr-lang
// queries) are read from YAML files given with --globals and merged in
// order after engine.yaml in the configuration directory. A host entity for
// query.* members is read with --entity.
//
// Script files named on the command line are searched for in the --include
// directories, then MOLANG_PATH, then the working directory. A name that is
// not found is retried with the ".mol" extension.
//
// # Flag configuration
//
// Flag defaults are read from config.json and config.yaml in the
// configuration directory and from MOLANG_* environment variables.
// MOLANG_CONFIG_DIR and MOLANG_CACHE_DIR relocate the configuration and cache
// directories. The init
// subcommand writes the current flags to config.yaml. Nested YAML mappings
// are flattened into hyphenated flag names.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o molang .
//
// With it, --pprof-mode enables a profile (allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, trace) written to --pprof-dir.
package cli
