package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/molang/lang"
	"github.com/ardnew/molang/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Session is the state shared by every subcommand.
type Session struct {
	// Engine evaluates every script of the session, so temp storage persists
	// between them.
	Engine *lang.Engine
	// Entity is the host entity bound to evaluations, or nil.
	Entity any
	// Path lists the directories searched for script files.
	Path []string
	// CacheDir holds transient files such as the REPL history.
	CacheDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type sessionKey struct{}

// WithSession returns a new context.Context containing sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// sessionFrom returns the session stored in ctx. Missing fields are filled
// with an engine using default options and the standard streams.
func sessionFrom(ctx context.Context) (*Session, error) {
	var sess Session

	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s != nil {
		sess = *s
	}

	if sess.Engine == nil {
		eng, err := lang.New()
		if err != nil {
			return nil, err
		}

		sess.Engine = eng
	}

	if sess.Stdin == nil {
		sess.Stdin = os.Stdin
	}

	if sess.Stdout == nil {
		sess.Stdout = os.Stdout
	}

	if sess.Stderr == nil {
		sess.Stderr = os.Stderr
	}

	return &sess, nil
}

// source is a named script input.
type source struct {
	name string
	io.Reader
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// scriptExt is tried when a script name without it is not found.
const scriptExt = ".mol"

// openSources resolves names against the session's search path and opens
// each distinct file once, in order. All occurrences of "-" are replaced with
// a single reader of the session's stdin placed last, so it reads after all
// regular files. The returned function closes every opened file.
func (s *Session) openSources(names []string) ([]source, func(), error) {
	var (
		srcs     []source
		files    []*os.File
		hasStdin bool
	)

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := s.resolve(name)
		if err != nil {
			closeAll()

			return nil, nil, err
		}

		file, ok, err := openUniqueFile(path, seen)
		if err != nil {
			closeAll()

			return nil, nil, pkg.ErrReadInput.Wrap(err)
		}

		if !ok {
			continue
		}

		files = append(files, file)
		srcs = append(srcs, source{name: name, Reader: file})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource, Reader: s.Stdin})
	}

	return srcs, closeAll, nil
}

// openSource opens a single script named as by openSources.
func (s *Session) openSource(name string) (source, func(), error) {
	if name == stdinSource {
		return source{name: name, Reader: s.Stdin}, func() {}, nil
	}

	path, err := s.resolve(name)
	if err != nil {
		return source{}, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return source{}, nil, pkg.ErrReadInput.Wrap(err)
	}

	return source{name: name, Reader: file}, func() { file.Close() }, nil
}

// resolve returns the path of the script called name: name itself when it
// exists, otherwise the first match in the search path, trying name and then
// name with the script extension in each directory.
func (s *Session) resolve(name string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range s.Path {
			for _, cand := range []string{name, name + scriptExt} {
				if path := filepath.Join(dir, cand); isFile(path) {
					return path, nil
				}
			}
		}
	}

	return "", pkg.ErrScriptNotFound.Wrapf("%s (searched %s)",
		name, strings.Join(s.Path, string(os.PathListSeparator)))
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate is reported with ok false and a nil error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parseArg converts a command-line argument to the host value it spells:
// a number, true or false, or otherwise the string itself.
func parseArg(s string) any {
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return n
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}

// parseValue is parseArg followed by [lang.ValueOf].
func parseValue(s string) lang.Value { return lang.ValueOf(parseArg(s)) }
