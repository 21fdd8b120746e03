package importer

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tmxexporter "tmxedit/internal/adapters/exporter/tmx"
	csvparser "tmxedit/internal/adapters/parser/csv"
	parreg "tmxedit/internal/adapters/parser/registry"
	"tmxedit/internal/adapters/parser/tmx"
	"tmxedit/internal/domain"
)

func newService() *Service {
	reg := parreg.New()
	reg.Register(csvparser.New(), "csv")
	return New(reg, tmxexporter.New(), nil)
}

func TestImportWritesTMX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "strings.tmx")
	res, err := newService().Import(context.Background(), ImportArgs{
		Filename:     "strings.csv",
		Locale:       "en",
		TargetLocale: "fr",
		Content:      []byte("key,source,translation\nok,OK,D'accord\n"),
		Output:       out,
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Format != "csv" || res.Units != 1 || res.Output != out {
		t.Fatalf("result = %+v", res)
	}
	doc, err := tmx.New().ReadFile(context.Background(), out, nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := doc.Units[0].Text("fr"); got != "D'accord" {
		t.Fatalf("fr = %q", got)
	}
}

func TestImportUnknownFormat(t *testing.T) {
	_, err := newService().Import(context.Background(), ImportArgs{Filename: "notes.txt", Content: []byte("x")})
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("/a/b/strings.json"); got != "/a/b/strings.tmx" {
		t.Fatalf("OutputName = %q", got)
	}
}
