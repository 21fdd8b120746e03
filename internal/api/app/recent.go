package app

import (
	"context"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type RecentAPI struct{ repo ports.RecentRepository }

func NewRecentAPI(repo ports.RecentRepository) *RecentAPI { return &RecentAPI{repo: repo} }

func (a *RecentAPI) List(ctx context.Context, limit int) ([]*domain.RecentFile, error) {
	return a.repo.List(ctx, limit)
}

func (a *RecentAPI) Forget(ctx context.Context, location string) error {
	return a.repo.Delete(ctx, location)
}
