package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Repo is the base of the store's repositories: statements are built with
// squirrel and run against DB.
type Repo struct {
	DB *sql.DB
	SQ sq.StatementBuilderType
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db, SQ: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
}

func (r *Repo) exec(ctx context.Context, q sq.Sqlizer) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build statement: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) query(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.DB.QueryContext(ctx, sqlStr, args...)
}

// scanOne runs q and scans its first row into dest. A missing row is
// reported as sql.ErrNoRows.
func (r *Repo) scanOne(ctx context.Context, q sq.Sqlizer, dest ...any) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.DB.QueryRowContext(ctx, sqlStr, args...).Scan(dest...)
}
