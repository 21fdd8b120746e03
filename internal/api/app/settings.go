package app

import (
	"context"
	"fmt"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type SettingsAPI struct{ repo ports.SettingsRepository }

func NewSettingsAPI(repo ports.SettingsRepository) *SettingsAPI { return &SettingsAPI{repo: repo} }

// Setting keys the command line reads.
const (
	SettingSourceLang = "editor.source_lang"
	SettingTargetLang = "editor.target_lang"
	SettingPageSize   = "editor.page_size"
)

func (a *SettingsAPI) Get(ctx context.Context, key string) (string, error) {
	return a.repo.Get(ctx, key)
}

func (a *SettingsAPI) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("setting key required")
	}
	return a.repo.Set(ctx, key, value)
}

func (a *SettingsAPI) List(ctx context.Context) ([]*domain.Setting, error) {
	return a.repo.List(ctx)
}
