// Package session implements the compilation-session orchestrator of
// spec.md §4.4: import-graph traversal with a cycle/diamond guard,
// per-file vs. root diagnostic routing, the semantic-check pass, and the
// URI-keyed compile-result cache.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/dekarrin/dpc/internal/cachestore"
	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/dpcerrors"
	"github.com/dekarrin/dpc/internal/ir"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/symtab"
)

// CacheStore is the persistence boundary a Session optionally writes
// through to (satisfied by *cachestore.Store); kept as a small interface
// here, rather than importing the concrete type everywhere, so tests can
// substitute an in-memory fake.
type CacheStore interface {
	Put(ctx context.Context, uri string, e cachestore.Entry) error
	Get(ctx context.Context, uri string) (cachestore.Entry, bool, error)
}

// CompileResult is the immutable artifact produced by one Compile call
// (spec.md §3).
type CompileResult struct {
	Success     bool
	Diagnostics []diag.Diagnostic
	Labels      *ir.LabelSet
	SourceID    string
	Timestamp   time.Time
}

// Session owns the result cache and, per compiled root, the symbol-table
// manager needed to answer later go-to-definition queries (spec.md §6).
// The core performs no locking beyond the cache/manager maps themselves;
// concurrent Compile calls for the SAME uri must be serialized by the
// host (spec.md §5).
type Session struct {
	resolver resolver.Resolver
	store    CacheStore

	mu       sync.Mutex
	cache    map[string]*CompileResult
	managers map[string]*symtab.Manager
}

// New returns a Session backed by r, with no persistent cache store: the
// compile-result cache is purely in-memory for the life of the process.
func New(r resolver.Resolver) *Session {
	return &Session{
		resolver: r,
		cache:    make(map[string]*CompileResult),
		managers: make(map[string]*symtab.Manager),
	}
}

// UseCacheStore attaches a persistent CacheStore that Compile writes
// through to and GetCachedCompileResult falls back to on an in-memory
// miss (spec.md §6's getCachedCompileResult, supplemented per
// SPEC_FULL.md to survive a process restart).
func (s *Session) UseCacheStore(store CacheStore) {
	s.store = store
}

// GetCachedCompileResult returns the last result cached for sourceID, if
// any: the in-memory cache first, then (if a CacheStore is attached and
// the in-memory cache missed) the persistent store. A store hit is only
// enough to report Success/Diagnostics/the label name set — label bodies
// are not persisted (see DESIGN.md), so Labels' entries come back with
// empty Statements until the next live Compile.
func (s *Session) GetCachedCompileResult(sourceID string) (*CompileResult, bool) {
	uri, err := resolver.CanonicalURI(sourceID)
	if err != nil {
		return nil, false
	}

	s.mu.Lock()
	r, ok := s.cache[uri]
	s.mu.Unlock()
	if ok {
		return r, true
	}

	if s.store == nil {
		return nil, false
	}
	entry, ok, err := s.store.Get(context.Background(), uri)
	if err != nil || !ok {
		return nil, false
	}

	labels := ir.NewLabelSet()
	for _, name := range entry.LabelNames {
		labels.Labels[name] = &ir.Label{Name: name, SourceID: uri}
	}
	result := &CompileResult{
		Success:     entry.Success,
		Diagnostics: entry.Diagnostics,
		Labels:      labels,
		SourceID:    uri,
		Timestamp:   entry.Timestamp,
	}

	s.mu.Lock()
	s.cache[uri] = result
	s.mu.Unlock()

	return result, true
}

// Compile resolves sourceID, lexes/parses/lowers it and every file it
// (transitively) imports, runs the semantic-check pass, and produces a
// CompileResult. The only error return paths are a sourceID that cannot
// be canonicalized, a ctx already cancelled when Compile starts, or a
// resolver failure on the root URI (spec.md §7): in each case no
// CompileResult is produced and the cache is left untouched.
func (s *Session) Compile(ctx context.Context, sourceID string) (*CompileResult, error) {
	uri, err := resolver.CanonicalURI(sourceID)
	if err != nil {
		return nil, dpcerrors.New("cannot canonicalize source id "+sourceID, err)
	}

	select {
	case <-ctx.Done():
		return nil, dpcerrors.New("compile aborted", dpcerrors.ErrCancelled)
	default:
	}

	text, err := s.resolver.GetText(ctx, uri)
	if err != nil {
		return nil, dpcerrors.WrapResolverFailure("failed to resolve root source "+uri, err)
	}

	c := newCompilation(s.resolver, uri)
	c.compileFile(ctx, uri, text, true)
	c.runSemanticChecks()

	labels := ir.NewLabelSet()
	for _, fileURI := range c.visitOrder {
		if ls, ok := c.labelSets[fileURI]; ok {
			labels.Merge(ls)
		}
	}

	result := &CompileResult{
		Success:     c.sink.ErrorCount() == 0,
		Diagnostics: c.sink.All(),
		Labels:      labels,
		SourceID:    uri,
		Timestamp:   time.Now(),
	}

	s.mu.Lock()
	s.cache[uri] = result
	s.managers[uri] = c.manager
	s.mu.Unlock()

	if s.store != nil {
		labelNames := make([]string, 0, len(labels.Labels))
		for name := range labels.Labels {
			labelNames = append(labelNames, name)
		}
		// Best-effort: a store write failure degrades to in-memory-only
		// caching for this entry, it must not fail the compile itself.
		_ = s.store.Put(ctx, uri, cachestore.Entry{
			SourceID:    uri,
			Timestamp:   result.Timestamp,
			Success:     result.Success,
			Diagnostics: result.Diagnostics,
			LabelNames:  labelNames,
		})
	}

	return result, nil
}

// FindLabelDefinition answers a go-to-definition query against the
// symbol tables captured by the most recent Compile of rootSourceID.
func (s *Session) FindLabelDefinition(rootSourceID, name string) []symtab.SymbolPosition {
	return s.lookup(rootSourceID, name, (*symtab.Manager).FindLabelDefinition)
}

// FindVariableDefinition is FindLabelDefinition's variable analogue.
func (s *Session) FindVariableDefinition(rootSourceID, name string) []symtab.SymbolPosition {
	return s.lookup(rootSourceID, name, (*symtab.Manager).FindVariableDefinition)
}

func (s *Session) lookup(rootSourceID, name string, find func(*symtab.Manager, string, string) []symtab.SymbolPosition) []symtab.SymbolPosition {
	uri, err := resolver.CanonicalURI(rootSourceID)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	mgr, ok := s.managers[uri]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return find(mgr, uri, name)
}
