// Package assets resolves and serves the client shell: the HTML
// document and script bundle the bridge server hands out for every
// application path.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
)

// Manifest maps source asset names to their fingerprinted filenames,
// as written by the build step ("traverse.js" -> "traverse.a1b2c3.js").
type Manifest struct {
	entries map[string]string
}

// LoadManifest reads a manifest JSON file: a flat object of source
// name to fingerprinted name.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for source, or source itself
// when the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Resolver provides asset path resolution for templates and the shell
// document.
type Resolver interface {
	// Asset resolves a source asset path to its full URL path,
	// including any configured prefix and fingerprinted filename.
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with an optional path
// prefix prepended to all resolved paths.
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{manifest: m, prefix: prefix}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

// passthrough returns assets unchanged, for development mode where
// fingerprinting is disabled.
type passthrough struct {
	prefix string
}

// NewPassthroughResolver creates a resolver that applies only the
// prefix, keeping dev and prod URL shapes consistent.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: prefix}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}
