package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	tmxexporter "tmxedit/internal/adapters/exporter/tmx"
	parreg "tmxedit/internal/adapters/parser/registry"
	"tmxedit/internal/adapters/parser/tmx"
	"tmxedit/internal/adapters/source/file"
	"tmxedit/internal/adapters/source/httpclient"
	srcreg "tmxedit/internal/adapters/source/registry"
	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

// blockingParser never finishes on its own.
type blockingParser struct{ started chan struct{} }

func (p *blockingParser) Format() string { return "slow" }

func (p *blockingParser) Parse(ctx context.Context, _ []byte, _ ports.ParseOptions) (*domain.Document, error) {
	close(p.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

// floodingParser reports progress for many units and then waits to be
// canceled.
type floodingParser struct{}

func (floodingParser) Format() string { return "flood" }

func (floodingParser) Parse(ctx context.Context, _ []byte, opts ports.ParseOptions) (*domain.Document, error) {
	for i := range 500 {
		opts.Report(i+1, 500)
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

type memCache struct {
	mu   sync.Mutex
	docs map[string]*domain.Document
	puts int
}

func (c *memCache) Get(_ context.Context, hash string) (*domain.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docs[hash], nil
}

func (c *memCache) Put(_ context.Context, hash string, doc *domain.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docs == nil {
		c.docs = map[string]*domain.Document{}
	}
	c.docs[hash] = doc
	c.puts++
	return nil
}

func (c *memCache) Prune(context.Context, int) error { return nil }

type memRecent struct {
	mu    sync.Mutex
	files []*domain.RecentFile
}

func (r *memRecent) Touch(_ context.Context, f *domain.RecentFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
	return nil
}

func (r *memRecent) List(context.Context, int) ([]*domain.RecentFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files, nil
}

func (r *memRecent) Delete(context.Context, string) error { return nil }

func newSession(t *testing.T, d Deps) (*Session, *parreg.Registry) {
	t.Helper()
	parsers := parreg.New()
	parsers.Register(tmx.New(), "tmx")
	sources := srcreg.New()
	sources.Register("file", file.New())
	web := httpclient.New(5 * time.Second)
	sources.Register("http", web)
	sources.Register("https", web)
	d.Parsers, d.Sources, d.Writer = parsers, sources, tmxexporter.New()
	return New(d), parsers
}

func tmxFile(t *testing.T, name string, units int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(tmxSource(units)), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func tmxSource(units int) string {
	var b strings.Builder
	b.WriteString(`<tmx version="1.4"><header srclang="en"/><body>`)
	for i := range units {
		fmt.Fprintf(&b, `<tu tuid="%d"><tuv xml:lang="en"><seg>one %d</seg></tuv><tuv xml:lang="fr"><seg>un %d</seg></tuv></tu>`, i, i, i)
	}
	b.WriteString(`</body></tmx>`)
	return b.String()
}

func collect(events <-chan domain.ParseEvent) []domain.ParseEvent {
	var out []domain.ParseEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestOpenEventOrder(t *testing.T) {
	s, _ := newSession(t, Deps{})
	events := collect(s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "a.tmx", 4)}))

	if len(events) != 5 {
		t.Fatalf("got %d events, want 5: %#v", len(events), events)
	}
	var percents []int
	for _, ev := range events[:4] {
		p, ok := ev.(domain.Progress)
		if !ok {
			t.Fatalf("unexpected event %#v before the terminal one", ev)
		}
		percents = append(percents, p.Percent)
	}
	if diff := cmp.Diff([]int{25, 50, 75, 100}, percents); diff != "" {
		t.Errorf("progress (-want +got):\n%s", diff)
	}
	done, ok := events[4].(domain.Done)
	if !ok || done.TotalUnits != 4 || done.Document != s.Document() {
		t.Fatalf("terminal event = %#v", events[4])
	}
	if src, tgt := s.Languages(); src != "en" || tgt != "fr" {
		t.Errorf("languages = %s, %s", src, tgt)
	}
}

func TestFailedOpenKeepsDocument(t *testing.T) {
	s, _ := newSession(t, Deps{})
	good := tmxFile(t, "good.tmx", 1)
	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: good}), nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	first := s.Document()

	bad := filepath.Join(t.TempDir(), "bad.tmx")
	if err := os.WriteFile(bad, []byte("<tmx><body>"), 0o644); err != nil {
		t.Fatal(err)
	}
	events := collect(s.Open(context.Background(), OpenArgs{Location: bad}))
	if len(events) != 1 {
		t.Fatalf("events = %#v", events)
	}
	failed, ok := events[0].(domain.Failed)
	var pe *domain.ParseError
	if !ok || !errors.As(failed.Err, &pe) || pe.Location != bad {
		t.Fatalf("terminal event = %#v", events[0])
	}
	if !strings.Contains(failed.Message, bad) {
		t.Errorf("message %q does not name the file", failed.Message)
	}
	if s.Document() != first || s.Location() != good {
		t.Fatal("failed open replaced the loaded document")
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, _ := newSession(t, Deps{})
	_, err := Wait(s.Open(context.Background(), OpenArgs{Location: filepath.Join(t.TempDir(), "nope.tmx")}), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}

func TestOpenSupersedesInFlight(t *testing.T) {
	s, parsers := newSession(t, Deps{})
	slow := &blockingParser{started: make(chan struct{})}
	parsers.Register(slow)

	first := s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "slow.tmx", 1), Format: "slow"})
	<-slow.started
	second := s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "fast.tmx", 2)})

	_, err := Wait(first, nil)
	if !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("first open err = %v, want ErrSuperseded", err)
	}
	doc, err := Wait(second, nil)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if s.Document() != doc || doc.UnitCount() != 2 {
		t.Fatal("second open did not install its document")
	}
}

func TestAbandonedOpenDoesNotLeak(t *testing.T) {
	s, parsers := newSession(t, Deps{})
	parsers.Register(floodingParser{})
	before := runtime.NumGoroutine()

	first := s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "flood.tmx", 1), Format: "flood"})
	deadline := time.Now().Add(5 * time.Second)
	for len(first) < cap(first) {
		if time.Now().After(deadline) {
			t.Fatal("progress never filled the event buffer")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "fast.tmx", 2)}), nil); err != nil {
		t.Fatalf("second open: %v", err)
	}
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines: %d before, %d after the abandoned open", before, runtime.NumGoroutine())
		}
		time.Sleep(time.Millisecond)
	}

	events := collect(first)
	last, ok := events[len(events)-1].(domain.Failed)
	if !ok || !errors.Is(last.Err, domain.ErrSuperseded) {
		t.Fatalf("last event = %#v, want Failed(ErrSuperseded)", events[len(events)-1])
	}
	for _, ev := range events[:len(events)-1] {
		if _, ok := ev.(domain.Progress); !ok {
			t.Fatalf("non-progress event before the terminal one: %#v", ev)
		}
	}
}

func TestOpenCanceledByCaller(t *testing.T) {
	s, parsers := newSession(t, Deps{})
	slow := &blockingParser{started: make(chan struct{})}
	parsers.Register(slow)

	ctx, cancel := context.WithCancel(context.Background())
	events := s.Open(ctx, OpenArgs{Location: tmxFile(t, "slow.tmx", 1), Format: "slow"})
	<-slow.started
	cancel()
	if _, err := Wait(events, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.Document() != nil {
		t.Fatal("canceled open installed a document")
	}
}

func TestSaveAsClearsModified(t *testing.T) {
	s, _ := newSession(t, Deps{})
	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "a.tmx", 3)}), nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SetText(1, "fr", "deux"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if got := s.Document().ModifiedCount(); got != 1 {
		t.Fatalf("ModifiedCount = %d", got)
	}

	out := filepath.Join(t.TempDir(), "out.tmx")
	if err := s.SaveAs(context.Background(), out); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if got := s.Document().ModifiedCount(); got != 0 {
		t.Fatalf("ModifiedCount after save = %d", got)
	}
	if s.Location() != out {
		t.Fatalf("Location = %q", s.Location())
	}
	back, err := tmx.New().ReadFile(context.Background(), out, nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := back.Units[1].Text("fr"); got != "deux" {
		t.Fatalf("saved fr = %q", got)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestSetTextErrors(t *testing.T) {
	s, _ := newSession(t, Deps{})
	if err := s.SetText(0, "en", "x"); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("no document: %v", err)
	}
	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "a.tmx", 1)}), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SetText(5, "en", "x"); err == nil {
		t.Error("out of range index accepted")
	}
	if err := s.SetText(0, "de", "x"); err == nil {
		t.Error("missing variant accepted")
	}
	if s.Document().ModifiedCount() != 0 {
		t.Error("failed edits marked units modified")
	}
}

func TestSaveRemoteDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tmxSource(2)))
	}))
	defer srv.Close()

	s, _ := newSession(t, Deps{})
	if err := s.Save(context.Background()); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("save without document: %v", err)
	}
	doc, err := Wait(s.Open(context.Background(), OpenArgs{Location: srv.URL + "/memory.tmx"}), nil)
	if err != nil {
		t.Fatalf("open url: %v", err)
	}
	if doc.UnitCount() != 2 {
		t.Fatalf("UnitCount = %d", doc.UnitCount())
	}
	if err := s.Save(context.Background()); !errors.Is(err, domain.ErrNotLocal) {
		t.Fatalf("save remote: %v", err)
	}
}

func TestCacheHitAndRecent(t *testing.T) {
	cache := &memCache{}
	recent := &memRecent{}
	s, _ := newSession(t, Deps{Cache: cache, Recent: recent, CacheKeep: 5})
	path := tmxFile(t, "a.tmx", 3)

	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: path}), nil); err != nil {
		t.Fatal(err)
	}
	events := collect(s.Open(context.Background(), OpenArgs{Location: path}))
	if len(events) != 2 {
		t.Fatalf("cached open events = %#v", events)
	}
	if p, ok := events[0].(domain.Progress); !ok || p.Percent != 100 {
		t.Fatalf("first cached event = %#v", events[0])
	}
	if _, ok := events[1].(domain.Done); !ok {
		t.Fatalf("second cached event = %#v", events[1])
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
	files, _ := recent.List(context.Background(), 0)
	if len(files) != 2 || files[0].Location != path || files[0].Units != 3 || files[0].SourceLang != "en" {
		t.Fatalf("recent = %+v", files)
	}
}

func TestClose(t *testing.T) {
	s, _ := newSession(t, Deps{})
	if _, err := Wait(s.Open(context.Background(), OpenArgs{Location: tmxFile(t, "a.tmx", 1)}), nil); err != nil {
		t.Fatal(err)
	}
	s.Close()
	if s.Document() != nil || s.Location() != "" {
		t.Fatal("Close kept the document")
	}
	if _, err := s.View(10); !errors.Is(err, domain.ErrNoDocument) {
		t.Fatalf("View after Close: %v", err)
	}
}
