package file

import (
	"context"
	"os"
	"strings"
)

// Source reads local paths. A file:// prefix is accepted.
type Source struct{}

func New() *Source { return &Source{} }

func (s *Source) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(strings.TrimPrefix(location, "file://"))
}
