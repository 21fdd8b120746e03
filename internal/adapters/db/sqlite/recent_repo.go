package sqlite

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"tmxedit/internal/domain"
)

type RecentRepo struct{ *Repo }

func NewRecentRepo(db *sql.DB) *RecentRepo { return &RecentRepo{NewRepo(db)} }

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var recentColumns = []string{"id", "location", "format", "hash", "units", "source_lang", "target_lang", "opened_at"}

// Touch records f as the most recently opened file. Reopening a location
// updates its row in place.
func (r *RecentRepo) Touch(ctx context.Context, f *domain.RecentFile) error {
	if f.OpenedAt.IsZero() {
		f.OpenedAt = time.Now().UTC()
	}
	q := r.SQ.Insert("recent_files").
		Columns("location", "format", "hash", "units", "source_lang", "target_lang", "opened_at").
		Values(f.Location, f.Format, f.Hash, f.Units, f.SourceLang, f.TargetLang, f.OpenedAt.UTC().Format(timeLayout)).
		Suffix(`ON CONFLICT(location) DO UPDATE SET format=excluded.format, hash=excluded.hash, units=excluded.units,
source_lang=excluded.source_lang, target_lang=excluded.target_lang, opened_at=excluded.opened_at RETURNING id`)
	return r.scanOne(ctx, q, &f.ID)
}

// List returns files newest first. limit <= 0 means no limit.
func (r *RecentRepo) List(ctx context.Context, limit int) ([]*domain.RecentFile, error) {
	q := r.SQ.Select(recentColumns...).From("recent_files").OrderBy("opened_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	rows, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.RecentFile
	for rows.Next() {
		var f domain.RecentFile
		var opened string
		if err := rows.Scan(&f.ID, &f.Location, &f.Format, &f.Hash, &f.Units, &f.SourceLang, &f.TargetLang, &opened); err != nil {
			return nil, err
		}
		f.OpenedAt, _ = time.Parse(timeLayout, opened)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *RecentRepo) Delete(ctx context.Context, location string) error {
	return r.exec(ctx, r.SQ.Delete("recent_files").Where(sq.Eq{"location": location}))
}
