package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Env returns the name of the environment variable for key: [EnvPrefix] and
// the upper-cased key joined by an underscore.
func Env(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

//nolint:gochecknoglobals
var (
	// PathEnv names the variable holding the script search path.
	PathEnv = Env("path")
	// ConfigDirEnv names the variable that overrides [ConfigDir].
	ConfigDirEnv = Env("config_dir")
	// CacheDirEnv names the variable that overrides [CacheDir].
	CacheDirEnv = Env("cache_dir")
)

// prefixRules rewrite executable names that do not identify the command:
// dlv and go test binaries, and dot-prefixed names.
//
//nolint:gochecknoglobals
var prefixRules = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^(__debug_bin\d*|.*\.test)(\.exe)?$`), Name},
	{regexp.MustCompile(`^\.+`), ""},
}

// prefixOf returns the directory prefix for the executable at path.
func prefixOf(path string) string {
	id := filepath.Base(path)

	for _, r := range prefixRules {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	id = strings.TrimSuffix(id, filepath.Ext(id))
	if id == "" || id == "." || id == string(filepath.Separator) {
		return Name
	}

	return id
}

// Prefix returns the base name of the running executable, or [Name] when
// run under a debugger or as a test binary. It names the configuration and
// cache directories.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return prefixOf(exe)
})

// userDir returns the directory named by the variable env if set, otherwise
// the per-user directory from base joined with [Prefix]. Without a user
// directory it falls back to fallback under the home directory, and then to
// the working directory.
func userDir(env string, base func() (string, error), fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Clean(dir)
	}

	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the directory holding the config file and REPL history.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(ConfigDirEnv, os.UserConfigDir, ".config")
})

// CacheDir returns the directory for transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(CacheDirEnv, os.UserCacheDir, ".cache")
})
