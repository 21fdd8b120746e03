package tmx

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Exporter serializes a Document as TMX 1.4. Segments are written as plain
// text: markup flattened on read is never rebuilt.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "tmx" }

func (e *Exporter) Export(doc *domain.Document, _ ports.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	w := &writer{enc: enc}

	w.start("tmx", xml.Attr{Name: xml.Name{Local: "version"}, Value: "1.4"})
	w.header(&doc.Header)
	w.start("body")
	for _, u := range doc.Units {
		w.unit(u)
	}
	w.end("body")
	w.end("tmx")
	if w.err == nil {
		w.err = enc.Flush()
	}
	if w.err != nil {
		return nil, w.err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile serializes doc and replaces path with the result. The file is
// written next to its destination and renamed into place, so a failed save
// leaves the previous file intact. doc is not modified.
func (e *Exporter) WriteFile(ctx context.Context, doc *domain.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	data, err := e.Export(doc, ports.ExportOptions{})
	if err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	if err := writeAtomic(path, data); err != nil {
		return &domain.WriteError{Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// writer keeps the first encoding error and turns later calls into no-ops.
type writer struct {
	enc *xml.Encoder
	err error
}

func (w *writer) start(name string, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) end(name string) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) text(name, text string, attrs ...xml.Attr) {
	w.start(name, attrs...)
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.CharData(text))
	}
	w.end(name)
}

func (w *writer) header(h *domain.Header) {
	var attrs []xml.Attr
	for k, v := range h.Attributes.All() {
		attrs = append(attrs, xml.Attr{Name: attrName(k), Value: v})
	}
	w.start("header", attrs...)
	w.meta(h.Notes, &h.Properties)
	w.end("header")
}

func (w *writer) unit(u *domain.TranslationUnit) {
	var attrs []xml.Attr
	if u.ID != "" {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "tuid"}, Value: u.ID})
	}
	for k, v := range u.Attributes.All() {
		if k == "tuid" {
			continue
		}
		attrs = append(attrs, xml.Attr{Name: attrName(k), Value: v})
	}
	w.start("tu", attrs...)
	w.meta(u.Notes, &u.Properties)
	for lang, v := range u.Variants() {
		w.variant(lang, v)
	}
	w.end("tu")
}

func (w *writer) variant(lang string, v *domain.Variant) {
	attrs := []xml.Attr{{Name: xml.Name{Space: xmlNamespace, Local: "lang"}, Value: lang}}
	for k, val := range v.Attributes.All() {
		if isQualified(k) {
			continue
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: k}, Value: val})
	}
	w.start("tuv", attrs...)
	w.text("seg", v.Text())
	w.meta(v.Notes, &v.Properties)
	w.end("tuv")
}

func (w *writer) meta(notes []string, props *domain.Fields) {
	for _, n := range notes {
		w.text("note", n)
	}
	for typ, val := range props.All() {
		w.text("prop", val, xml.Attr{Name: xml.Name{Local: "type"}, Value: typ})
	}
}

func isQualified(key string) bool {
	return strings.HasPrefix(key, "{") || strings.Contains(key, ":")
}

// attrName turns a stored key back into an XML name. Keys read from
// namespace-qualified attributes use Clark notation: {uri}local.
func attrName(key string) xml.Name {
	if strings.HasPrefix(key, "{") {
		if i := strings.IndexByte(key, '}'); i > 0 {
			return xml.Name{Space: key[1:i], Local: key[i+1:]}
		}
	}
	if local, ok := strings.CutPrefix(key, "xml:"); ok {
		return xml.Name{Space: xmlNamespace, Local: local}
	}
	return xml.Name{Local: key}
}
