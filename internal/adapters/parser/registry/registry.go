package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"tmxedit/internal/ports"
)

type Registry struct {
	byFormat map[string]ports.Parser
	byExt    map[string]string
}

func New() *Registry {
	return &Registry{byFormat: map[string]ports.Parser{}, byExt: map[string]string{}}
}

// Register adds p and maps the given file extensions (with or without the
// leading dot) to its format.
func (r *Registry) Register(p ports.Parser, exts ...string) {
	r.byFormat[p.Format()] = p
	for _, ext := range exts {
		r.byExt[normExt(ext)] = p.Format()
	}
}

func (r *Registry) Get(format string) (ports.Parser, bool) {
	p, ok := r.byFormat[format]
	return p, ok
}

// Detect picks a format from the extension of location. ok is false when no
// registered parser claims the extension.
func (r *Registry) Detect(location string) (string, bool) {
	if i := strings.IndexAny(location, "?#"); i >= 0 && strings.Contains(location, "://") {
		location = location[:i]
	}
	f, ok := r.byExt[normExt(filepath.Ext(location))]
	return f, ok
}

func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

func normExt(ext string) string { return strings.ToLower(strings.TrimPrefix(ext, ".")) }
