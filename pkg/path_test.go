package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"path", "MOLANG_PATH"},
		{"config_dir", "MOLANG_CONFIG_DIR"},
		{"log-level", "MOLANG_LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Env(tt.key); got != tt.want {
				t.Errorf("Env(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	if PathEnv != "MOLANG_PATH" {
		t.Errorf("PathEnv = %q", PathEnv)
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/molang", "molang"},
		{"/opt/tools/mol", "mol"},
		{"/bin/molang.exe", "molang"},
		{"/tmp/__debug_bin3214", Name},
		{"/tmp/go-build/cli.test", Name},
		{"/home/u/.molang", "molang"},
		{"/", Name},
		{"", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := prefixOf(filepath.FromSlash(tt.path)); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	const env = "MOLANG_TEST_DIR"

	base := func() (string, error) { return "/base", nil }
	missing := func() (string, error) { return "", errors.New("unset") }

	t.Setenv(env, "")

	if got, want := userDir(env, base, ".config"), filepath.Join("/base", Prefix()); got != want {
		t.Errorf("userDir(base) = %q, want %q", got, want)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := userDir(env, missing, ".cache"), filepath.Join(home, ".cache", Prefix()); got != want {
		t.Errorf("userDir(no base) = %q, want %q", got, want)
	}

	override := filepath.Join(home, "custom") + string(os.PathSeparator)
	t.Setenv(env, override)

	if got, want := userDir(env, base, ".config"), filepath.Join(home, "custom"); got != want {
		t.Errorf("userDir(override) = %q, want %q", got, want)
	}
}
