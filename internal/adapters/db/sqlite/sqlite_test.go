package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tmxedit/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(context.Background(), filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for range 2 {
		db, err := Init(context.Background(), path)
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
		_ = db.Close()
	}
}

func TestInitConnectionSettings(t *testing.T) {
	db := openTestDB(t)
	db.SetMaxOpenConns(2)
	ctx := context.Background()

	// Hold one connection so the second query opens a fresh one.
	held, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn: %v", err)
	}
	defer held.Close()

	var timeout int
	if err := db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != int(busyTimeout.Milliseconds()) {
		t.Fatalf("busy_timeout = %d, want %d", timeout, busyTimeout.Milliseconds())
	}
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestInitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if db, err := Init(ctx, filepath.Join(t.TempDir(), "x.db")); err == nil {
		_ = db.Close()
		t.Fatal("Init with a canceled context succeeded")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepo(openTestDB(t))

	if v, err := repo.Get(ctx, "missing"); err != nil || v != "" {
		t.Fatalf("Get(missing) = %q, %v", v, err)
	}
	for _, kv := range [][2]string{{"b", "1"}, {"a", "2"}, {"b", "3"}} {
		if err := repo.Set(ctx, kv[0], kv[1]); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []*domain.Setting{{Key: "a", Value: "2"}, {Key: "b", Value: "3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings (-want +got):\n%s", diff)
	}
}

func TestRecentFiles(t *testing.T) {
	ctx := context.Background()
	repo := NewRecentRepo(openTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, loc := range []string{"/a.tmx", "/b.tmx", "/c.tmx"} {
		f := &domain.RecentFile{Location: loc, Format: "tmx", Hash: domain.ContentHash([]byte(loc)), OpenedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Touch(ctx, f); err != nil {
			t.Fatalf("Touch: %v", err)
		}
		if f.ID == 0 {
			t.Fatal("Touch did not set ID")
		}
	}
	again := &domain.RecentFile{Location: "/a.tmx", Format: "tmx", Units: 9, OpenedAt: base.Add(time.Hour)}
	if err := repo.Touch(ctx, again); err != nil {
		t.Fatalf("Touch again: %v", err)
	}

	got, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var locs []string
	for _, f := range got {
		locs = append(locs, f.Location)
	}
	if diff := cmp.Diff([]string{"/a.tmx", "/c.tmx"}, locs); diff != "" {
		t.Fatalf("recent order (-want +got):\n%s", diff)
	}
	if got[0].Units != 9 || !got[0].OpenedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("reopened row not updated: %+v", got[0])
	}

	if err := repo.Delete(ctx, "/a.tmx"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, _ := repo.List(ctx, 0)
	if len(all) != 2 {
		t.Fatalf("after delete %d rows remain", len(all))
	}
}

func TestDocumentCache(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepo(openTestDB(t))

	if doc, err := repo.Get(ctx, "nope"); err != nil || doc != nil {
		t.Fatalf("miss = %v, %v", doc, err)
	}

	doc := &domain.Document{}
	doc.Header.Attributes.Set("srclang", "en")
	doc.Header.Notes = []string{"note"}
	u := domain.NewUnit("1")
	u.Properties.Set("x", "y")
	u.PutVariant(domain.NewVariant("en", "Hello"))
	fr := domain.NewVariant("fr", "Bonjour")
	fr.Attributes.Set("creationid", "me")
	u.PutVariant(fr)
	doc.Units = append(doc.Units, u)

	if err := repo.Put(ctx, "h1", doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	back, err := repo.Get(ctx, "h1")
	if err != nil || back == nil {
		t.Fatalf("Get = %v, %v", back, err)
	}
	if diff := cmp.Diff(fromDocument(doc), fromDocument(back), cmp.AllowUnexported(cachedPair{})); diff != "" {
		t.Fatalf("cached document (-want +got):\n%s", diff)
	}
	if back.Units[0].Modified() {
		t.Fatal("cached unit restored as modified")
	}
}

func TestCachePrune(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepo(openTestDB(t))
	for _, h := range []string{"a", "b", "c"} {
		if err := repo.Put(ctx, h, &domain.Document{}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if err := repo.Prune(ctx, 1); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if err := repo.Prune(ctx, -1); err == nil {
		t.Fatal("Prune(-1) succeeded")
	}
	for h, want := range map[string]bool{"a": false, "b": false, "c": true} {
		doc, err := repo.Get(ctx, h)
		if err != nil {
			t.Fatalf("Get(%s): %v", h, err)
		}
		if (doc != nil) != want {
			t.Errorf("entry %s present = %v, want %v", h, doc != nil, want)
		}
	}
}
