package app

import (
	"context"
	"encoding/base64"

	csvexp "tmxedit/internal/adapters/exporter/csv"
	jsonexp "tmxedit/internal/adapters/exporter/paraglidejson"
	exreg "tmxedit/internal/adapters/exporter/registry"
	tmxexp "tmxedit/internal/adapters/exporter/tmx"
	vdfexp "tmxedit/internal/adapters/exporter/valvevdf"
	"tmxedit/internal/domain"
	"tmxedit/internal/usecase/exporter"
	"tmxedit/internal/usecase/session"
)

type ExportAPI struct {
	svc *exporter.Service
	s   *session.Session
}

func NewExportAPI(svc *exporter.Service, s *session.Session) *ExportAPI {
	return &ExportAPI{svc: svc, s: s}
}

type ExportRequest struct {
	Format       string `json:"format"`
	LanguageName string `json:"language_name"`
	Separator    string `json:"separator"`
	// Output is written when set; otherwise only the content is returned.
	Output string `json:"output"`
}

type ExportResponse struct {
	Filename   string `json:"filename"`
	ContentB64 string `json:"content_b64"`
	Content    []byte `json:"-"`
}

// Export renders the open document for the working language pair.
func (a *ExportAPI) Export(ctx context.Context, req ExportRequest) (ExportResponse, error) {
	doc := a.s.Document()
	if doc == nil {
		return ExportResponse{}, domain.ErrNoDocument
	}
	src, tgt := a.s.Languages()
	args := exporter.ExportArgs{
		Format:       req.Format,
		SourceLang:   src,
		TargetLang:   tgt,
		LanguageName: req.LanguageName,
		Separator:    req.Separator,
		Base:         a.s.Location(),
	}
	if req.Output != "" {
		if err := a.svc.ExportFile(ctx, doc, args, req.Output); err != nil {
			return ExportResponse{}, err
		}
		return ExportResponse{Filename: req.Output}, nil
	}
	res, err := a.svc.Export(ctx, doc, args)
	if err != nil {
		return ExportResponse{}, err
	}
	return ExportResponse{
		Filename:   res.Filename,
		ContentB64: base64.StdEncoding.EncodeToString(res.Content),
		Content:    res.Content,
	}, nil
}

// Formats lists the export format names.
func (a *ExportAPI) Formats() []string { return a.svc.Reg.Formats() }

// NewDefaultExporterRegistry builds the registry with every exporter.
func NewDefaultExporterRegistry() *exreg.Registry {
	reg := exreg.New()
	reg.Register(tmxexp.New())
	reg.Register(jsonexp.New())
	reg.Register(vdfexp.New())
	reg.Register(csvexp.New())
	return reg
}
