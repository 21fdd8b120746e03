package registry

import (
	"fmt"
	"strings"

	"tmxedit/internal/ports"
)

// Registry picks a Source by URL scheme. Locations without a scheme use the
// "file" source.
type Registry struct{ byScheme map[string]ports.Source }

func New() *Registry { return &Registry{byScheme: map[string]ports.Source{}} }

func (r *Registry) Register(scheme string, s ports.Source) { r.byScheme[strings.ToLower(scheme)] = s }

func (r *Registry) Resolve(location string) (ports.Source, error) {
	scheme := Scheme(location)
	s, ok := r.byScheme[scheme]
	if !ok {
		return nil, fmt.Errorf("no source for scheme %q", scheme)
	}
	return s, nil
}

// Scheme returns the lower-cased URL scheme of location, or "file".
// Windows drive letters are not treated as schemes.
func Scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 1 {
		return "file"
	}
	return strings.ToLower(location[:i])
}

// IsLocal reports whether location names a file on disk.
func IsLocal(location string) bool { return Scheme(location) == "file" }
