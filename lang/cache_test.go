package lang

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseCache(t *testing.T) {
	e := newEngine(t)
	ctx := t.Context()

	first, err := e.Parse(ctx, "a + b * 2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	second, err := e.Parse(ctx, "a + b * 2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if first[0] != second[0] {
		t.Error("cached parse returned a different tree")
	}

	first[0] = nil

	third, _ := e.Parse(ctx, "a + b * 2")
	if third[0] == nil {
		t.Error("modifying a returned slice changed the cache")
	}

	e.ClearCache()

	fourth, _ := e.Parse(ctx, "a + b * 2")
	if fourth[0] == second[0] || !EqualAll(fourth, second) {
		t.Error("ClearCache did not force a fresh, equal parse")
	}
}

func TestParseCacheErrors(t *testing.T) {
	e := newEngine(t)

	for range 2 {
		if _, err := e.Parse(t.Context(), "1 +"); !errors.Is(err, ErrParse) {
			t.Errorf("Parse() error = %v, want ErrParse", err)
		}
	}
}

func TestParseCacheKeyIncludesDepth(t *testing.T) {
	src := "((x))"

	shallow := newEngine(t, WithMaxDepth(2))
	if _, err := shallow.Parse(t.Context(), src); !errors.Is(err, ErrParse) {
		t.Errorf("Parse(depth 2) error = %v, want ErrParse", err)
	}

	deep := newEngine(t, WithMaxDepth(0))
	if _, err := deep.Parse(t.Context(), src); err != nil {
		t.Errorf("Parse(default depth) error = %v", err)
	}

	k1, h1 := cacheKey(src, 2)
	k2, h2 := cacheKey(src, DefaultMaxDepth)

	if k1 == k2 || h1 != h2 {
		t.Errorf("cacheKey: keys %s, %s; source hashes %x, %x", k1, k2, h1, h2)
	}
}

func TestParseCacheKeyCollision(t *testing.T) {
	e := newEngine(t)

	// Occupy the key of "a + 1" with the tree of another source.
	key, _ := cacheKey("a + 1", e.maxDepth)
	other := &cacheEntry{source: "b * 2", maxDepth: e.maxDepth}
	other.once.Do(func() { other.exprs = mustParse(t, "b * 2") })
	e.cache.entries.Store(key, other)

	got, err := e.Parse(t.Context(), "a + 1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !EqualAll(got, mustParse(t, "a + 1")) {
		t.Errorf("Parse(%q) = %q from a colliding entry", "a + 1", Source(got))
	}

	if stored, _ := e.cache.entries.Load(key); stored != other {
		t.Error("colliding parse replaced the cached entry")
	}
}

func TestParseCacheDisabled(t *testing.T) {
	e := newEngine(t, WithCache(false))

	first, _ := e.Parse(t.Context(), "x")
	second, _ := e.Parse(t.Context(), "x")

	if first[0] == second[0] {
		t.Error("parse cache used while disabled")
	}

	e.ClearCache()
}

func TestParseCacheConcurrent(t *testing.T) {
	e := newEngine(t)

	var (
		wg    sync.WaitGroup
		trees [8]Expr
	)

	for i := range trees {
		wg.Go(func() {
			exprs, err := e.Parse(t.Context(), "math.max(1, 2)")
			if err != nil {
				t.Errorf("Parse() error = %v", err)

				return
			}

			trees[i] = exprs[0]
		})
	}

	wg.Wait()

	for i := range trees {
		if trees[i] != trees[0] {
			t.Fatalf("goroutine %d parsed its own tree", i)
		}
	}
}

func TestParseReader(t *testing.T) {
	e := newEngine(t)

	exprs, err := e.ParseReader(t.Context(), strings.NewReader("temp.r = 2;\ntemp.r * 3"))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}

	got, err := e.Evaluate(t.Context(), exprs, nil)
	if err != nil || got.AsDouble() != 6 {
		t.Errorf("Evaluate() = %v, %v, want 6", got, err)
	}

	large := bytes.Repeat([]byte("1;"), 1<<16)

	exprs, err = e.ParseReader(t.Context(), bytes.NewReader(large))
	if err != nil || len(exprs) != 1<<16 {
		t.Errorf("ParseReader(large) = %d exprs, %v", len(exprs), err)
	}

	_, err = e.ParseReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("ParseReader(failing) error = %v, want ErrReadInput", err)
	}
}
