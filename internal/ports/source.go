package ports

import "context"

// Source loads raw document bytes from a location (a path or a URL).
type Source interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}
