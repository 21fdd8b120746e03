package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"tmxedit/internal/domain"
)

type SettingsRepo struct{ *Repo }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{NewRepo(db)} }

// Get returns "" for a key that was never set.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	if err := r.scanOne(ctx, r.SQ.Select("value").From("settings").Where(sq.Eq{"key": key}), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	return r.exec(ctx, r.SQ.Insert("settings").Columns("key", "value").Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value"))
}

func (r *SettingsRepo) List(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := r.query(ctx, r.SQ.Select("key", "value").From("settings").OrderBy("key"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
