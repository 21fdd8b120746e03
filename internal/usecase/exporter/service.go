package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	exreg "tmxedit/internal/adapters/exporter/registry"
	"tmxedit/internal/domain"
	"tmxedit/internal/logging"
	"tmxedit/internal/ports"
)

// Service renders the open document in another format.
type Service struct {
	Reg *exreg.Registry
	Log *zap.Logger
}

func New(reg *exreg.Registry, log *zap.Logger) *Service {
	return &Service{Reg: reg, Log: logging.OrNop(log)}
}

type ExportArgs struct {
	Format       string
	SourceLang   string
	TargetLang   string
	LanguageName string // optional for VDF header
	Separator    string // optional for CSV
	// Base names the exported file; its extension is replaced.
	Base string
}

type ExportResult struct {
	Filename string
	Content  []byte
}

var extensions = map[string]string{
	"csv":           ".csv",
	"paraglidejson": ".json",
	"valvevdf":      ".txt",
	"tmx":           ".tmx",
}

func (s *Service) Export(ctx context.Context, doc *domain.Document, a ExportArgs) (ExportResult, error) {
	if doc == nil {
		return ExportResult{}, domain.ErrNoDocument
	}
	if err := ctx.Err(); err != nil {
		return ExportResult{}, err
	}
	exp, ok := s.Reg.Get(a.Format)
	if !ok {
		return ExportResult{}, fmt.Errorf("%w: no exporter for %s", domain.ErrUnsupportedFormat, a.Format)
	}
	content, err := exp.Export(doc, ports.ExportOptions{
		SourceLang: a.SourceLang,
		TargetLang: a.TargetLang,
		Language:   a.LanguageName,
		Separator:  a.Separator,
	})
	if err != nil {
		return ExportResult{}, err
	}
	name := ""
	if a.Base != "" {
		name = strings.TrimSuffix(filepath.Base(a.Base), filepath.Ext(a.Base))
		if a.TargetLang != "" {
			name += "." + a.TargetLang
		}
		name += extensions[a.Format]
	}
	s.Log.Debug("exported", zap.String("format", a.Format), zap.Int("bytes", len(content)))
	return ExportResult{Filename: name, Content: content}, nil
}

// ExportFile exports doc and writes the result to path.
func (s *Service) ExportFile(ctx context.Context, doc *domain.Document, a ExportArgs, path string) error {
	res, err := s.Export(ctx, doc, a)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, res.Content, 0o644); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	return nil
}
