package app

import (
	"context"
	"encoding/base64"
	"os"

	csvp "tmxedit/internal/adapters/parser/csv"
	paraglide "tmxedit/internal/adapters/parser/paraglidejson"
	parreg "tmxedit/internal/adapters/parser/registry"
	"tmxedit/internal/adapters/parser/tmx"
	vdf "tmxedit/internal/adapters/parser/valvevdf"
	"tmxedit/internal/usecase/importer"
)

type ImportAPI struct {
	svc *importer.Service
}

func NewImportAPI(svc *importer.Service) *ImportAPI { return &ImportAPI{svc: svc} }

type ImportRequest struct {
	Filename     string `json:"filename"`
	Format       string `json:"format"`
	Locale       string `json:"locale"`
	TargetLocale string `json:"target_locale"`
	// Output is the TMX file to write; defaults to Filename with a .tmx
	// extension.
	Output string `json:"output"`
	// ContentB64, when set, is used instead of reading Filename.
	ContentB64 string `json:"content_b64"`
}

type ImportResponse struct {
	Format string `json:"format"`
	Units  int    `json:"units"`
	Output string `json:"output"`
}

func (a *ImportAPI) Import(ctx context.Context, req ImportRequest) (ImportResponse, error) {
	var content []byte
	var err error
	if req.ContentB64 != "" {
		content, err = base64.StdEncoding.DecodeString(req.ContentB64)
	} else {
		content, err = os.ReadFile(req.Filename)
	}
	if err != nil {
		return ImportResponse{}, err
	}
	out := req.Output
	if out == "" {
		out = importer.OutputName(req.Filename)
	}
	res, err := a.svc.Import(ctx, importer.ImportArgs{
		Filename:     req.Filename,
		Format:       req.Format,
		Locale:       req.Locale,
		TargetLocale: req.TargetLocale,
		Content:      content,
		Output:       out,
	})
	if err != nil {
		return ImportResponse{}, err
	}
	return ImportResponse{Format: res.Format, Units: res.Units, Output: res.Output}, nil
}

// NewDefaultParserRegistry registers every parser with its file extensions.
func NewDefaultParserRegistry() *parreg.Registry {
	reg := parreg.New()
	reg.Register(tmx.New(), "tmx")
	reg.Register(paraglide.New(), "json")
	reg.Register(vdf.New(), "vdf", "txt")
	reg.Register(csvp.New(), "csv", "tsv")
	return reg
}
