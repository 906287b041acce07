package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// parseCache memoizes parsed scripts by source and parser options.
type parseCache struct {
	entries sync.Map // string -> *cacheEntry
}

// cacheEntry is parsed at most once; concurrent lookups of the same key wait
// for the first parse. source and maxDepth identify the entry when two
// inputs share a key.
type cacheEntry struct {
	once     sync.Once
	source   string
	maxDepth int
	exprs    []Expr
	err      error
}

// hashOptions encodes the parser options with gob and hashes the result.
func hashOptions(maxDepth int) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the source hash with the options hash.
func cacheKey(source string, maxDepth int) (key string, sourceHash uint64) {
	sourceHash = xxh3.HashString(source)

	return strconv.FormatUint(sourceHash^hashOptions(maxDepth), 36), sourceHash
}

// load returns the parsed script for source, parsing it on first use.
// The returned slice is a copy; the trees it holds are shared and must be
// treated as immutable.
func (c *parseCache) load(
	ctx context.Context,
	e *Engine,
	source string,
) ([]Expr, error) {
	key, sourceHash := cacheKey(source, e.maxDepth)

	value, hit := c.entries.LoadOrStore(key, &cacheEntry{
		source:   source,
		maxDepth: e.maxDepth,
	})
	entry, _ := value.(*cacheEntry)

	e.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	if entry.source != source || entry.maxDepth != e.maxDepth {
		e.logger.DebugContext(ctx, "cache key collision",
			slog.String("key", key),
		)

		return parse(source, e.maxDepth)
	}

	entry.once.Do(func() {
		entry.exprs, entry.err = parse(source, e.maxDepth)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	return append([]Expr(nil), entry.exprs...), nil
}

func (c *parseCache) clear() {
	c.entries.Clear()
}

// readSource reads all of r through an asynchronous read-ahead buffer.
func readSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	return string(data), nil
}
