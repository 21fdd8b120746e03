package paraglidejson

import (
	"bytes"
	"encoding/json"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "paraglidejson" }

// Export writes a flat JSON object in document order. A repeated key keeps
// its first position and its last value.
func (e *Exporter) Export(doc *domain.Document, opts ports.ExportOptions) ([]byte, error) {
	var out domain.Ordered[string]
	for _, it := range ports.Items(doc, opts) {
		out.Set(it.Key, it.Value())
	}
	var b bytes.Buffer
	b.WriteString("{")
	first := true
	for k, v := range out.All() {
		if !first {
			b.WriteString(",")
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		b.WriteString("\n  ")
		b.Write(key)
		b.WriteString(": ")
		b.Write(val)
	}
	if !first {
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}
