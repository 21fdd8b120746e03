package valvevdf

import (
	"bytes"
	"fmt"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "valvevdf" }

// Export produces a simple VDF structure similar to the HL2 format. The
// "language" value is opts.Language, else the target language code.
func (e *Exporter) Export(doc *domain.Document, opts ports.ExportOptions) ([]byte, error) {
	language := opts.Language
	if language == "" {
		language = opts.TargetLang
	}
	var b bytes.Buffer
	b.WriteString("\"lang\"\n{")
	b.WriteString("\n\t\"language\" \"")
	b.WriteString(escapeVDF(language))
	b.WriteString("\"\n\t\"tokens\"\n\t{\n")
	for _, it := range ports.Items(doc, opts) {
		fmt.Fprintf(&b, "\t\t\"%s\"\t\t\"%s\"\n", escapeVDF(it.Key), escapeVDF(it.Value()))
	}
	b.WriteString("\t}\n}\n")
	return b.Bytes(), nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func escapeVDF(s string) string { return escaper.Replace(s) }
