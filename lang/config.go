package lang

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
)

// Config is the YAML form of an engine's globals.
//
//	max_depth: 512
//	recursion_limit: 256
//	bindings:
//	  gravity: 9.81
//	  player: { name: Steve, health: 20 }
//	functions:
//	  double: { params: [x], body: "x * 2" }
//	queries:
//	  health: Health
type Config struct {
	Bindings       map[string]any          `yaml:"bindings,omitempty"`
	Functions      map[string]FunctionSpec `yaml:"functions,omitempty"`
	Queries        map[string]string       `yaml:"queries,omitempty"`
	MaxDepth       int                     `yaml:"max_depth,omitempty"`
	RecursionLimit int                     `yaml:"recursion_limit,omitempty"`
}

// FunctionSpec declares a script function.
type FunctionSpec struct {
	Body   string   `yaml:"body"`
	Params []string `yaml:"params,omitempty"`
}

// LoadConfig decodes a YAML configuration from r. Unknown fields are errors.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	if err := yaml.NewDecoder(r, yaml.Strict()).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}

		return Config{}, ErrConfig.Wrap(err)
	}

	return cfg, nil
}

// Merge returns the union of cfg and other. Entries of other win, as do its
// non-zero limits.
func (cfg Config) Merge(other Config) Config {
	out := Config{
		Bindings:       maps.Clone(cfg.Bindings),
		Functions:      maps.Clone(cfg.Functions),
		Queries:        maps.Clone(cfg.Queries),
		MaxDepth:       cfg.MaxDepth,
		RecursionLimit: cfg.RecursionLimit,
	}

	out.Bindings = mergeInto(out.Bindings, other.Bindings)
	out.Functions = mergeInto(out.Functions, other.Functions)
	out.Queries = mergeInto(out.Queries, other.Queries)

	if other.MaxDepth != 0 {
		out.MaxDepth = other.MaxDepth
	}

	if other.RecursionLimit != 0 {
		out.RecursionLimit = other.RecursionLimit
	}

	return out
}

func mergeInto[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		dst = make(map[string]V, len(src))
	}

	maps.Copy(dst, src)

	return dst
}

// Options converts cfg to engine options. Queries are compiled untyped, so
// they accept any entity.
func (cfg Config) Options() ([]Option, error) {
	var opts []Option

	if cfg.MaxDepth != 0 {
		opts = append(opts, WithMaxDepth(cfg.MaxDepth))
	}

	if cfg.RecursionLimit != 0 {
		opts = append(opts, WithRecursionLimit(cfg.RecursionLimit))
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Bindings)) {
		if !isIdentifier(name) {
			return nil, ErrConfig.With(slog.String("binding", name)).
				Wrap(NewError("binding name is not an identifier"))
		}

		opts = append(opts, WithBinding(name, cfg.Bindings[name]))
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Functions)) {
		fn := cfg.Functions[name]

		if !isIdentifier(name) {
			return nil, ErrConfig.With(slog.String("function", name)).
				Wrap(NewError("function name is not an identifier"))
		}

		for _, p := range fn.Params {
			if !isIdentifier(p) {
				return nil, ErrConfig.With(
					slog.String("function", name),
					slog.String("param", p),
				).Wrap(NewError("parameter name is not an identifier"))
			}
		}

		opts = append(opts, WithScript(name, fn.Params, fn.Body))
	}

	if len(cfg.Queries) > 0 {
		opts = append(opts, WithQueries(nil, cfg.Queries))
	}

	return opts, nil
}

// NewFromConfig returns an engine configured by cfg followed by opts.
func NewFromConfig(cfg Config, opts ...Option) (*Engine, error) {
	cfgOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return New(append(cfgOpts, opts...)...)
}
