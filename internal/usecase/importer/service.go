package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	parreg "tmxedit/internal/adapters/parser/registry"
	"tmxedit/internal/domain"
	"tmxedit/internal/logging"
	"tmxedit/internal/ports"
)

// Service converts single-locale key/value files into TMX documents.
type Service struct {
	ParserRegistry *parreg.Registry
	Writer         ports.DocumentWriter
	Log            *zap.Logger
}

func New(reg *parreg.Registry, w ports.DocumentWriter, log *zap.Logger) *Service {
	return &Service{ParserRegistry: reg, Writer: w, Log: logging.OrNop(log)}
}

type ImportArgs struct {
	Filename     string
	Format       string // detected from Filename when empty
	Locale       string
	TargetLocale string
	Content      []byte
	// Output is the TMX path to write; empty skips writing.
	Output string
}

type ImportResult struct {
	Document *domain.Document
	Format   string
	Units    int
	Output   string
}

func (s *Service) Import(ctx context.Context, in ImportArgs) (ImportResult, error) {
	format := in.Format
	if format == "" {
		f, ok := s.ParserRegistry.Detect(in.Filename)
		if !ok {
			return ImportResult{}, fmt.Errorf("%w: cannot tell the format of %s", domain.ErrUnsupportedFormat, in.Filename)
		}
		format = f
	}
	parser, ok := s.ParserRegistry.Get(format)
	if !ok {
		return ImportResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	doc, err := parser.Parse(ctx, in.Content, ports.ParseOptions{Locale: in.Locale, TargetLocale: in.TargetLocale})
	if err != nil {
		return ImportResult{}, &domain.ParseError{Location: in.Filename, Err: err}
	}
	res := ImportResult{Document: doc, Format: format, Units: doc.UnitCount()}
	if in.Output != "" {
		if err := s.Writer.WriteFile(ctx, doc, in.Output); err != nil {
			return ImportResult{}, err
		}
		res.Output = in.Output
	}
	s.Log.Info("imported", zap.String("file", in.Filename), zap.String("format", format),
		zap.Int("units", res.Units), zap.String("output", res.Output))
	return res, nil
}

// OutputName suggests a TMX file name next to filename.
func OutputName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".tmx"
}
