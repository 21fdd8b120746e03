package ports

import (
	"context"

	"tmxedit/internal/domain"
)

type RecentRepository interface {
	Touch(ctx context.Context, f *domain.RecentFile) error
	List(ctx context.Context, limit int) ([]*domain.RecentFile, error)
	Delete(ctx context.Context, location string) error
}

// DocumentCache stores parsed documents by content hash. Get returns nil, nil
// on a miss.
type DocumentCache interface {
	Get(ctx context.Context, hash string) (*domain.Document, error)
	Put(ctx context.Context, hash string, doc *domain.Document) error
	Prune(ctx context.Context, keep int) error
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]*domain.Setting, error)
}
