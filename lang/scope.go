package lang

import (
	"maps"
	"slices"
	"sync"
)

// Namespace is a value whose members are reachable with the access operator,
// such as math in math.abs.
type Namespace interface {
	Member(name string) (Value, bool)
}

// MutableNamespace is a [Namespace] that accepts member assignment
// (temp.x = 1).
type MutableNamespace interface {
	Namespace
	SetMember(name string, v Value)
}

// ContextNamespace is a [Namespace] whose members depend on the evaluator
// resolving them, typically on its bound entity. Member access prefers
// MemberOf over Member.
type ContextNamespace interface {
	Namespace
	MemberOf(ev *Evaluator, name string) (Value, bool)
}

// Members is a read-only [Namespace] backed by a map.
type Members map[string]Value

// Member implements [Namespace].
func (m Members) Member(name string) (Value, bool) {
	v, ok := m[name]

	return v, ok
}

// Names returns the member names in sorted order.
func (m Members) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// NamesOf returns the member names of ns when it can enumerate them.
func NamesOf(ns Namespace) []string {
	if n, ok := ns.(interface{ Names() []string }); ok {
		return n.Names()
	}

	return nil
}

// Resolver supplies bindings that are not stored in a [Scope], for example
// host properties computed on demand.
type Resolver interface {
	Resolve(name string) (Value, bool)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(name string) (Value, bool)

// Resolve implements [Resolver].
func (f ResolverFunc) Resolve(name string) (Value, bool) { return f(name) }

// Resolvers consults each resolver in order; the first match wins.
type Resolvers []Resolver

// Resolve implements [Resolver].
func (rs Resolvers) Resolve(name string) (Value, bool) {
	for _, r := range rs {
		if v, ok := r.Resolve(name); ok {
			return v, true
		}
	}

	return Null(), false
}

// Scope maps names to values, falling back to its parent for names it does
// not define. A scope is not safe for concurrent use unless it is frozen.
type Scope struct {
	parent   *Scope
	vars     map[string]Value
	resolver Resolver
	frozen   bool
}

// NewScope returns an empty scope layered over parent, which may be nil.
// The parent must outlive the new scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]Value)}
}

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Frozen reports whether the scope rejects writes.
func (s *Scope) Frozen() bool { return s.frozen }

// local looks name up in s alone: stored values first, then the resolver.
func (s *Scope) local(name string) (v Value, stored, ok bool) {
	if v, ok := s.vars[name]; ok {
		return v, true, true
	}

	if s.resolver != nil {
		if v, ok := s.resolver.Resolve(name); ok {
			return v, false, true
		}
	}

	return Null(), false, false
}

// Lookup walks the scope chain outward and returns the first binding of
// name.
func (s *Scope) Lookup(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, _, ok := sc.local(name); ok {
			return v, true
		}
	}

	return Null(), false
}

// Define binds name in s itself, shadowing any outer binding.
// The empty name and frozen scopes are ignored.
func (s *Scope) Define(name string, v Value) {
	if name == "" || s.frozen {
		return
	}

	s.vars[name] = v
}

// Assign stores v under name in the nearest scope that already stores name,
// or in s if no writable scope does. Names provided by a resolver or by a
// frozen scope are shadowed in s rather than written through.
func (s *Scope) Assign(name string, v Value) {
	if name == "" {
		return
	}

	for sc := s; sc != nil; sc = sc.parent {
		_, stored, ok := sc.local(name)
		if !ok {
			continue
		}

		if stored && !sc.frozen {
			sc.vars[name] = v

			return
		}

		break
	}

	s.Define(name, v)
}

// Names returns the names stored in s itself, sorted.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}

// freeze makes s read-only, which also makes it safe for concurrent reads.
func (s *Scope) freeze() { s.frozen = true }

// Storage is a [MutableNamespace] safe for concurrent use. It backs the temp
// namespace.
type Storage struct {
	mu   sync.RWMutex
	vars map[string]Value
}

// NewStorage returns an empty storage.
func NewStorage() *Storage {
	return &Storage{vars: make(map[string]Value)}
}

// Member implements [Namespace].
func (s *Storage) Member(name string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vars[name]

	return v, ok
}

// SetMember implements [MutableNamespace]. The empty name is ignored.
func (s *Storage) SetMember(name string, v Value) {
	if name == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vars[name] = v
}

// Names returns the stored names, sorted.
func (s *Storage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.vars))
}

// Len returns the number of stored names.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vars)
}

// Clear removes every stored name.
func (s *Storage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.vars)
}

// Names under which the temp storage is bound in every global scope.
const (
	TempNamespace      = "temp"
	TempNamespaceAlias = "t"
)

// GlobalScope is the frozen root scope of an [Engine]. It holds the engine's
// namespaces and the temp [Storage], the one piece of state shared by every
// evaluation against the same global scope.
type GlobalScope struct {
	root *Scope
	temp *Storage
}

// NewGlobalScope returns a frozen root scope holding bindings, falling back
// to resolver (which may be nil) for names not bound. The temp namespace is
// always present under [TempNamespace] and [TempNamespaceAlias]; bindings
// cannot replace it.
func NewGlobalScope(bindings map[string]Value, resolver Resolver) *GlobalScope {
	g := &GlobalScope{root: NewScope(nil), temp: NewStorage()}

	for name, v := range bindings {
		g.root.Define(name, v)
	}

	g.root.Define(TempNamespace, Object(g.temp))
	g.root.Define(TempNamespaceAlias, Object(g.temp))

	g.root.resolver = resolver
	g.root.freeze()

	return g
}

// Scope returns the root scope. It is frozen and never receives writes.
func (g *GlobalScope) Scope() *Scope { return g.root }

// Temp returns the shared temp storage.
func (g *GlobalScope) Temp() *Storage { return g.temp }

// Lookup resolves name in the root scope.
func (g *GlobalScope) Lookup(name string) (Value, bool) { return g.root.Lookup(name) }

// Names returns the names bound in the root scope, sorted.
func (g *GlobalScope) Names() []string { return g.root.Names() }
