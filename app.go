package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"

	dbsqlite "tmxedit/internal/adapters/db/sqlite"
	tmxexp "tmxedit/internal/adapters/exporter/tmx"
	"tmxedit/internal/adapters/source/file"
	"tmxedit/internal/adapters/source/httpclient"
	srcreg "tmxedit/internal/adapters/source/registry"
	apiapp "tmxedit/internal/api/app"
	"tmxedit/internal/config"
	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
	"tmxedit/internal/ui"
	"tmxedit/internal/usecase/exporter"
	"tmxedit/internal/usecase/importer"
	"tmxedit/internal/usecase/session"
)

var errNoStorage = errors.New("storage is disabled: set storage.path in the config or pass --db")

// App holds the wired services for one command invocation.
type App struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB

	session  *session.Session
	editor   *apiapp.EditorAPI
	imports  *apiapp.ImportAPI
	exports  *apiapp.ExportAPI
	recent   *apiapp.RecentAPI
	settings *apiapp.SettingsAPI

	out, errOut io.Writer
	interactive bool
}

// NewApp opens storage (when configured) and builds every service.
func NewApp(ctx context.Context, cfg config.Config, log *zap.Logger, out, errOut io.Writer) (*App, error) {
	a := &App{cfg: cfg, log: log, out: out, errOut: errOut}
	if f, ok := errOut.(*os.File); ok {
		a.interactive = term.IsTerminal(int(f.Fd()))
	}

	var cache ports.DocumentCache
	var recent ports.RecentRepository
	if cfg.Storage.Path != "" {
		db, err := dbsqlite.Init(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		a.db = db
		recent = dbsqlite.NewRecentRepo(db)
		if cfg.Storage.Cache {
			cache = dbsqlite.NewCacheRepo(db)
		}
		a.recent = apiapp.NewRecentAPI(recent)
		a.settings = apiapp.NewSettingsAPI(dbsqlite.NewSettingsRepo(db))
	}

	sources := srcreg.New()
	sources.Register("file", file.New())
	web := httpclient.New(cfg.HTTP.Timeout.Duration)
	sources.Register("http", web)
	sources.Register("https", web)

	writer := tmxexp.New()
	parsers := apiapp.NewDefaultParserRegistry()
	a.session = session.New(session.Deps{
		Parsers:   parsers,
		Sources:   sources,
		Writer:    writer,
		Cache:     cache,
		CacheKeep: cfg.Storage.CacheKeep,
		Recent:    recent,
		Log:       log.Named("session"),
	})
	a.editor = apiapp.NewEditorAPI(a.session, a.pageSize())
	a.imports = apiapp.NewImportAPI(importer.New(parsers, writer, log.Named("import")))
	a.exports = apiapp.NewExportAPI(exporter.New(apiapp.NewDefaultExporterRegistry(), log.Named("export")), a.session)
	return a, nil
}

func (a *App) Close() error {
	a.session.Close()
	_ = a.log.Sync()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// pageSize prefers the stored setting over the config file.
func (a *App) pageSize() int {
	if a.settings != nil {
		if v, err := a.settings.Get(context.Background(), apiapp.SettingPageSize); err == nil && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return a.cfg.Editor.PageSize
}

type openFlags struct {
	format       string
	locale       string
	targetLocale string
	source       string
	target       string
	quiet        bool
}

// open loads location into the session and applies language overrides:
// flags first, then stored settings when the document has those languages.
func (a *App) open(ctx context.Context, location string, f openFlags) (*domain.Document, error) {
	events := a.editor.Open(ctx, apiapp.OpenRequest{
		Location:     location,
		Format:       f.format,
		Locale:       f.locale,
		TargetLocale: f.targetLocale,
	})
	var doc *domain.Document
	var err error
	switch {
	case f.quiet:
		doc, err = session.Wait(events, nil)
	case a.interactive:
		doc, err = ui.RunOpen(location, events, a.errOut)
	default:
		doc, err = ui.PrintOpen(location, events, a.errOut)
	}
	if err != nil {
		return nil, err
	}

	src, tgt := a.session.Languages()
	if a.settings != nil {
		langs := map[string]bool{}
		for _, l := range doc.Languages() {
			langs[l] = true
		}
		if v, _ := a.settings.Get(ctx, apiapp.SettingSourceLang); langs[v] {
			src = v
		}
		if v, _ := a.settings.Get(ctx, apiapp.SettingTargetLang); langs[v] {
			tgt = v
		}
	}
	if f.source != "" {
		src = f.source
	}
	if f.target != "" {
		tgt = f.target
	}
	if err := a.session.SetLanguages(src, tgt); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *App) requireStorage() error {
	if a.db == nil {
		return errNoStorage
	}
	return nil
}

var (
	modifiedColor = color.New(color.FgYellow, color.Bold)
	headingColor  = color.New(color.Bold)
	dimColor      = color.New(color.Faint)
	okColor       = color.New(color.FgGreen)
)
