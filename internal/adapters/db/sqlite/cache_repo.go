package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fortio.org/safecast"
	sq "github.com/Masterminds/squirrel"
	"github.com/vmihailenco/msgpack/v5"

	"tmxedit/internal/domain"
)

// CacheRepo keeps parsed documents keyed by the SHA-256 of their source
// bytes, encoded with msgpack.
type CacheRepo struct{ *Repo }

func NewCacheRepo(db *sql.DB) *CacheRepo { return &CacheRepo{NewRepo(db)} }

const cacheVersion = 1

type cachedDocument struct {
	Version int          `msgpack:"v"`
	Header  cachedMeta   `msgpack:"h"`
	Units   []cachedUnit `msgpack:"u"`
}

type cachedMeta struct {
	Attrs []cachedPair `msgpack:"a,omitempty"`
	Notes []string     `msgpack:"n,omitempty"`
	Props []cachedPair `msgpack:"p,omitempty"`
}

type cachedPair struct {
	_msgpack struct{} `msgpack:",as_array"`
	Key      string
	Value    string
}

type cachedUnit struct {
	ID       string          `msgpack:"id,omitempty"`
	Meta     cachedMeta      `msgpack:"m"`
	Variants []cachedVariant `msgpack:"vs"`
}

type cachedVariant struct {
	Lang string     `msgpack:"l"`
	Text string     `msgpack:"t"`
	Meta cachedMeta `msgpack:"m"`
}

func (r *CacheRepo) Get(ctx context.Context, hash string) (*domain.Document, error) {
	var payload []byte
	if err := r.scanOne(ctx, r.SQ.Select("payload").From("document_cache").Where(sq.Eq{"hash": hash}), &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var c cachedDocument
	if err := msgpack.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode cached document %s: %w", hash, err)
	}
	if c.Version != cacheVersion {
		return nil, nil
	}
	return c.document(), nil
}

func (r *CacheRepo) Put(ctx context.Context, hash string, doc *domain.Document) error {
	payload, err := msgpack.Marshal(fromDocument(doc))
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	return r.exec(ctx, r.SQ.Insert("document_cache").Columns("hash", "payload", "created_at").
		Values(hash, payload, now).
		Suffix("ON CONFLICT(hash) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at"))
}

// Prune drops all but the keep most recent entries.
func (r *CacheRepo) Prune(ctx context.Context, keep int) error {
	n, err := safecast.Conv[uint64](keep)
	if err != nil {
		return fmt.Errorf("cache keep %d: %w", keep, err)
	}
	newest, args, err := r.SQ.Select("hash").From("document_cache").OrderBy("created_at DESC").Limit(n).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.exec(ctx, r.SQ.Delete("document_cache").Where("hash NOT IN ("+newest+")", args...))
}

func fromFields(f *domain.Fields) []cachedPair {
	var out []cachedPair
	for k, v := range f.All() {
		out = append(out, cachedPair{Key: k, Value: v})
	}
	return out
}

func toFields(dst *domain.Fields, pairs []cachedPair) {
	for _, p := range pairs {
		dst.Set(p.Key, p.Value)
	}
}

func fromDocument(doc *domain.Document) cachedDocument {
	c := cachedDocument{
		Version: cacheVersion,
		Header:  cachedMeta{Attrs: fromFields(&doc.Header.Attributes), Notes: doc.Header.Notes, Props: fromFields(&doc.Header.Properties)},
		Units:   make([]cachedUnit, 0, len(doc.Units)),
	}
	for _, u := range doc.Units {
		cu := cachedUnit{
			ID:   u.ID,
			Meta: cachedMeta{Attrs: fromFields(&u.Attributes), Notes: u.Notes, Props: fromFields(&u.Properties)},
		}
		for lang, v := range u.Variants() {
			cu.Variants = append(cu.Variants, cachedVariant{
				Lang: lang,
				Text: v.Text(),
				Meta: cachedMeta{Attrs: fromFields(&v.Attributes), Notes: v.Notes, Props: fromFields(&v.Properties)},
			})
		}
		c.Units = append(c.Units, cu)
	}
	return c
}

func (c *cachedDocument) document() *domain.Document {
	doc := &domain.Document{Units: make([]*domain.TranslationUnit, 0, len(c.Units))}
	toFields(&doc.Header.Attributes, c.Header.Attrs)
	toFields(&doc.Header.Properties, c.Header.Props)
	doc.Header.Notes = c.Header.Notes
	for _, cu := range c.Units {
		u := domain.NewUnit(cu.ID)
		toFields(&u.Attributes, cu.Meta.Attrs)
		toFields(&u.Properties, cu.Meta.Props)
		u.Notes = cu.Meta.Notes
		for _, cv := range cu.Variants {
			v := domain.NewVariant(cv.Lang, cv.Text)
			toFields(&v.Attributes, cv.Meta.Attrs)
			toFields(&v.Properties, cv.Meta.Props)
			v.Notes = cv.Meta.Notes
			u.PutVariant(v)
		}
		doc.Units = append(doc.Units, u)
	}
	return doc
}
