// Package resolver defines the content-resolver boundary interface
// (spec.md §6) and two concrete implementations: a filesystem resolver and
// an in-memory resolver for tests and the REPL.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resolver is the core-consumed boundary interface. Given a source
// identifier (path or URI), it returns the source text. Failure (not
// found, read error) is returned as an error which the caller converts to
// a diagnostic.
type Resolver interface {
	// Exists reports whether sourceID can currently be resolved.
	Exists(ctx context.Context, sourceID string) bool

	// GetText returns the full source text for sourceID.
	GetText(ctx context.Context, sourceID string) (string, error)
}

// CanonicalURI converts sourceID into a canonical absolute URI per
// spec.md §6: strings already starting with file://, http://, or https://
// pass through unchanged; anything else is treated as a filesystem path,
// resolved absolute against the process working directory, and converted
// to a file:// URI.
func CanonicalURI(sourceID string) (string, error) {
	for _, scheme := range []string{"file://", "http://", "https://"} {
		if strings.HasPrefix(sourceID, scheme) {
			return sourceID, nil
		}
	}

	abs, err := filepath.Abs(sourceID)
	if err != nil {
		return "", fmt.Errorf("canonicalize %q: %w", sourceID, err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return (&url.URL{Scheme: "file", Path: abs}).String(), nil
}

// ResolveImport resolves an import path written inside fromURI relative to
// it: an absolute literal path stays absolute, otherwise it's resolved
// relative to the importing file's directory.
func ResolveImport(fromURI, importPath string) (string, error) {
	if filepath.IsAbs(importPath) {
		return CanonicalURI(importPath)
	}
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(importPath, scheme) {
			return importPath, nil
		}
	}

	u, err := url.Parse(fromURI)
	if err != nil || u.Scheme != "file" {
		// fromURI isn't a file URI (e.g. http-hosted import); resolve
		// textually.
		base, err2 := url.Parse(fromURI)
		if err2 != nil {
			return "", fmt.Errorf("resolve import %q from %q: %w", importPath, fromURI, err)
		}
		ref, err2 := url.Parse(importPath)
		if err2 != nil {
			return "", fmt.Errorf("resolve import %q: %w", importPath, err2)
		}
		return base.ResolveReference(ref).String(), nil
	}

	dir := filepath.Dir(u.Path)
	joined := filepath.ToSlash(filepath.Join(dir, importPath))
	if !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return (&url.URL{Scheme: "file", Path: joined}).String(), nil
}

// FSResolver resolves source IDs against the local filesystem.
type FSResolver struct{}

// Exists reports whether the file named by the canonical form of sourceID
// exists and is readable.
func (FSResolver) Exists(_ context.Context, sourceID string) bool {
	p, err := uriToPath(sourceID)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// GetText reads the full contents of the file named by sourceID.
func (FSResolver) GetText(_ context.Context, sourceID string) (string, error) {
	p, err := uriToPath(sourceID)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", sourceID, err)
	}
	return string(b), nil
}

func uriToPath(sourceID string) (string, error) {
	canon, err := CanonicalURI(sourceID)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(canon)
	if err != nil {
		return "", fmt.Errorf("parse uri %q: %w", canon, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a filesystem uri: %q", canon)
	}
	return filepath.FromSlash(u.Path), nil
}

// MemResolver is an in-memory Resolver keyed by canonical URI, used by
// tests and the REPL (cmd/dpi).
type MemResolver struct {
	files map[string]string
}

// NewMemResolver builds a MemResolver from a map of sourceID (not
// necessarily canonical) to source text.
func NewMemResolver(files map[string]string) *MemResolver {
	m := &MemResolver{files: make(map[string]string, len(files))}
	for k, v := range files {
		canon, err := CanonicalURI(k)
		if err != nil {
			canon = k
		}
		m.files[canon] = v
	}
	return m
}

// Set adds or replaces the text for sourceID.
func (m *MemResolver) Set(sourceID, text string) {
	if m.files == nil {
		m.files = make(map[string]string)
	}
	canon, err := CanonicalURI(sourceID)
	if err != nil {
		canon = sourceID
	}
	m.files[canon] = text
}

// Exists reports whether sourceID has been Set.
func (m *MemResolver) Exists(_ context.Context, sourceID string) bool {
	canon, err := CanonicalURI(sourceID)
	if err != nil {
		canon = sourceID
	}
	_, ok := m.files[canon]
	return ok
}

// GetText returns the text previously Set for sourceID.
func (m *MemResolver) GetText(_ context.Context, sourceID string) (string, error) {
	canon, err := CanonicalURI(sourceID)
	if err != nil {
		canon = sourceID
	}
	text, ok := m.files[canon]
	if !ok {
		return "", fmt.Errorf("no such source: %q", sourceID)
	}
	return text, nil
}
