package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	parreg "tmxedit/internal/adapters/parser/registry"
	srcreg "tmxedit/internal/adapters/source/registry"
	"tmxedit/internal/domain"
	"tmxedit/internal/logging"
	"tmxedit/internal/ports"
	"tmxedit/internal/usecase/query"
)

// DefaultFormat is used when a location has no recognised extension.
const DefaultFormat = "tmx"

type Deps struct {
	Parsers *parreg.Registry
	Sources *srcreg.Registry
	Writer  ports.DocumentWriter
	// Cache and Recent are optional.
	Cache     ports.DocumentCache
	CacheKeep int
	Recent    ports.RecentRepository
	Log       *zap.Logger
}

// Session owns at most one open document. Opening a document cancels any
// open still in flight; the canceled open ends with a Failed event.
type Session struct {
	d Deps

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelCauseFunc
	doc      *domain.Document
	location string
	format   string
	srcLang  string
	tgtLang  string
}

func New(d Deps) *Session {
	d.Log = logging.OrNop(d.Log)
	return &Session{d: d}
}

type OpenArgs struct {
	Location string
	// Format overrides extension based detection.
	Format       string
	Locale       string
	TargetLocale string
}

// Open starts parsing a.Location in the background. The returned channel
// yields Progress events, then exactly one Done or Failed, then closes. The
// caller should drain it; a canceled or superseded open that nobody reads
// still finishes. The current document stays loaded until the new one
// parses successfully.
func (s *Session) Open(ctx context.Context, a OpenArgs) <-chan domain.ParseEvent {
	pctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel(domain.ErrSuperseded)
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	ch := make(chan domain.ParseEvent, 16)
	go func() {
		defer close(ch)
		defer cancel(nil)
		finish(pctx, ch, s.run(pctx, gen, a, ch))
	}()
	return ch
}

func (s *Session) run(ctx context.Context, gen uint64, a OpenArgs, ch chan<- domain.ParseEvent) domain.ParseEvent {
	log := s.d.Log.With(zap.String("location", a.Location))
	started := time.Now()

	fail := func(err error) domain.ParseEvent {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
		}
		var pe *domain.ParseError
		if !errors.As(err, &pe) {
			err = &domain.ParseError{Location: a.Location, Err: err}
		}
		log.Warn("open failed", zap.Error(err))
		return domain.Failed{Message: err.Error(), Err: err}
	}

	format := a.Format
	if format == "" {
		if f, ok := s.d.Parsers.Detect(a.Location); ok {
			format = f
		} else {
			format = DefaultFormat
		}
	}
	parser, ok := s.d.Parsers.Get(format)
	if !ok {
		return fail(fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format))
	}
	source, err := s.d.Sources.Resolve(a.Location)
	if err != nil {
		return fail(err)
	}
	data, err := source.Fetch(ctx, a.Location)
	if err != nil {
		return fail(err)
	}

	hash := domain.ContentHash(data)
	cacheable := s.d.Cache != nil && format == DefaultFormat

	var doc *domain.Document
	if cacheable {
		doc, err = s.d.Cache.Get(ctx, hash)
		if err != nil {
			log.Warn("parse cache read failed", zap.Error(err))
			doc = nil
		}
		if doc != nil {
			log.Debug("parse cache hit", zap.String("hash", hash))
			send(ctx, ch, domain.Progress{Percent: 100})
		}
	}
	fromCache := doc != nil
	if doc == nil {
		doc, err = parser.Parse(ctx, data, ports.ParseOptions{
			Locale:       a.Locale,
			TargetLocale: a.TargetLocale,
			Progress: func(p int) {
				send(ctx, ch, domain.Progress{Percent: p})
			},
		})
		if err != nil {
			return fail(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	srcLang, tgtLang := query.DetermineLanguages(doc)
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return fail(domain.ErrSuperseded)
	}
	s.doc, s.location, s.format = doc, a.Location, format
	s.srcLang, s.tgtLang = srcLang, tgtLang
	s.mu.Unlock()

	log.Info("opened", zap.String("format", format), zap.Int("units", doc.UnitCount()),
		zap.Bool("cached", fromCache), zap.Duration("took", time.Since(started)))

	bg := context.WithoutCancel(ctx)
	if cacheable && !fromCache {
		if err := s.d.Cache.Put(bg, hash, doc); err != nil {
			log.Warn("parse cache write failed", zap.Error(err))
		} else if s.d.CacheKeep > 0 {
			if err := s.d.Cache.Prune(bg, s.d.CacheKeep); err != nil {
				log.Warn("parse cache prune failed", zap.Error(err))
			}
		}
	}
	if s.d.Recent != nil {
		rf := &domain.RecentFile{
			Location: a.Location, Format: format, Hash: hash, Units: doc.UnitCount(),
			SourceLang: srcLang, TargetLang: tgtLang,
		}
		if err := s.d.Recent.Touch(bg, rf); err != nil {
			log.Warn("recording recent file failed", zap.Error(err))
		}
	}
	return domain.Done{Document: doc, TotalUnits: doc.UnitCount()}
}

// send delivers a progress event unless the open was canceled.
func send(ctx context.Context, ch chan<- domain.ParseEvent, ev domain.ParseEvent) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

// finish delivers the terminal event. Once ctx is canceled the reader may
// be gone, so the oldest buffered progress is dropped to make room.
func finish(ctx context.Context, ch chan domain.ParseEvent, ev domain.ParseEvent) {
	for {
		select {
		case ch <- ev:
			return
		case <-ctx.Done():
		}
		select {
		case ch <- ev:
			return
		case <-ch:
		}
	}
}

// Wait drains events and returns the opened document or the failure.
func Wait(events <-chan domain.ParseEvent, progress func(int)) (*domain.Document, error) {
	var doc *domain.Document
	var err error
	for ev := range events {
		switch e := ev.(type) {
		case domain.Progress:
			if progress != nil {
				progress(e.Percent)
			}
		case domain.Done:
			doc = e.Document
		case domain.Failed:
			err = e.Err
			if err == nil {
				err = errors.New(e.Message)
			}
		}
	}
	if doc == nil && err == nil {
		err = domain.ErrNoDocument
	}
	return doc, err
}

func (s *Session) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Location is where the open document was read from or last saved to.
func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

func (s *Session) Format() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format
}

// Languages returns the working source and target languages.
func (s *Session) Languages() (source, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srcLang, s.tgtLang
}

func (s *Session) SetLanguages(source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.ErrNoDocument
	}
	s.srcLang, s.tgtLang = source, target
	return nil
}

// View returns a pager over the open document using the working languages.
func (s *Session) View(pageSize int) (*query.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, domain.ErrNoDocument
	}
	return query.NewView(s.doc, s.srcLang, s.tgtLang, pageSize), nil
}

// SetText edits the lang variant of the unit at index.
func (s *Session) SetText(index int, lang, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.ErrNoDocument
	}
	if index < 0 || index >= len(s.doc.Units) {
		return fmt.Errorf("unit index %d out of range [0, %d)", index, len(s.doc.Units))
	}
	if !s.doc.Units[index].SetText(lang, text) {
		return fmt.Errorf("unit %d has no %q variant", index, lang)
	}
	return nil
}

// Save writes the document back to where it was read from.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	loc, format := s.location, s.format
	s.mu.Unlock()
	if loc == "" {
		return domain.ErrNoDocument
	}
	if !srcreg.IsLocal(loc) {
		return domain.ErrNotLocal
	}
	if format != DefaultFormat {
		return fmt.Errorf("%w: %s files are imported, save them with SaveAs", domain.ErrUnsupportedFormat, format)
	}
	return s.SaveAs(ctx, loc)
}

// SaveAs writes the document to path, clears every modified flag and makes
// path the document's location.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return domain.ErrNoDocument
	}
	if err := s.d.Writer.WriteFile(ctx, s.doc, localPath(path)); err != nil {
		s.d.Log.Error("save failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.doc.ClearModified()
	s.location, s.format = path, DefaultFormat
	s.d.Log.Info("saved", zap.String("path", path), zap.Int("units", s.doc.UnitCount()))
	return nil
}

// Close discards the document and cancels any open in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(domain.ErrSuperseded)
		s.cancel = nil
	}
	s.gen++
	s.doc, s.location, s.format = nil, "", ""
	s.srcLang, s.tgtLang = "", ""
}

func localPath(location string) string { return strings.TrimPrefix(location, "file://") }
