// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured once, at creation, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// The zero [Logger] discards everything, which lets library types such as
// the expression engine hold a Logger field without a nil check.
//
// # Levels
//
// In addition to the four [log/slog] levels the package defines
// [LevelTrace], used for per-parse and per-call detail. Levels print by name
// ("TRACE" rather than "DEBUG-4").
//
// # Context
//
// Every level has a context-aware variant. The context-unaware variants use
// [DefaultContextProvider], which returns [context.TODO] unless replaced.
//
// # Package-level logging
//
// The package-level functions ([Info], [DebugContext], and so on) write to
// a default logger on standard error. [Config] reconfigures it and
// [SetDefault] replaces it.
//
// # Output
//
// [FormatJSON] (default) and [FormatText] are available, each either plain
// or pretty-printed with ANSI colors for a terminal ([WithPretty]).
package log
