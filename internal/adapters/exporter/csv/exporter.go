package csv

import (
	"bytes"
	"encoding/csv"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

// Export writes key, source and translation columns. opts.Separator selects
// comma (default), semicolon or tab.
func (e *Exporter) Export(doc *domain.Document, opts ports.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	switch sep := opts.Separator; {
	case sep == "\t", strings.EqualFold(strings.TrimSpace(sep), "tab"):
		w.Comma = '\t'
	case sep == ";", strings.EqualFold(strings.TrimSpace(sep), "semicolon"):
		w.Comma = ';'
	default:
		w.Comma = ','
	}
	if err := w.Write([]string{"key", "source", "translation"}); err != nil {
		return nil, err
	}
	for _, it := range ports.Items(doc, opts) {
		if err := w.Write([]string{it.Key, it.SourceText, it.Value()}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
