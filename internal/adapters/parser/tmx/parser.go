package tmx

import (
	"context"
	"encoding/xml"
	"os"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

// inlineTags are the TMX inline markup elements that leave a [tag] marker
// in the flattened segment text.
var inlineTags = map[string]bool{"bpt": true, "ept": true, "ph": true, "it": true, "hi": true}

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "tmx" }

// Parse reads a whole TMX document. Malformed input yields an error and no
// document. Progress is reported once per <tu>.
func (p *Parser) Parse(ctx context.Context, data []byte, opts ports.ParseOptions) (*domain.Document, error) {
	root, err := buildTree(data)
	if err != nil {
		return nil, err
	}
	doc := &domain.Document{}
	if h := root.child("header"); h != nil {
		doc.Header = readHeader(h)
	}
	var tus []*node
	if body := root.child("body"); body != nil {
		tus = body.childrenNamed("tu")
	}
	total := len(tus)
	doc.Units = make([]*domain.TranslationUnit, 0, total)
	for i, tu := range tus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.Units = append(doc.Units, readUnit(tu))
		opts.Report(i+1, total)
	}
	return doc, nil
}

// ReadFile parses the TMX file at path.
func (p *Parser) ReadFile(ctx context.Context, path string, progress func(int)) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ParseError{Location: path, Err: err}
	}
	doc, err := p.Parse(ctx, data, ports.ParseOptions{Progress: progress})
	if err != nil {
		return nil, &domain.ParseError{Location: path, Err: err}
	}
	return doc, nil
}

func readHeader(n *node) domain.Header {
	var h domain.Header
	for _, a := range n.attrs {
		if isNamespaceDecl(a) {
			continue
		}
		h.Attributes.Set(attrKey(a), a.Value)
	}
	h.Notes = readNotes(n)
	readProps(n, &h.Properties)
	return h
}

func readUnit(n *node) *domain.TranslationUnit {
	u := domain.NewUnit("")
	for _, a := range n.attrs {
		if isNamespaceDecl(a) {
			continue
		}
		if a.Name.Space == "" && a.Name.Local == "tuid" {
			u.ID = a.Value
			continue
		}
		u.Attributes.Set(attrKey(a), a.Value)
	}
	u.Notes = readNotes(n)
	readProps(n, &u.Properties)
	for _, tuv := range n.childrenNamed("tuv") {
		// a <tuv> without <seg> contributes nothing
		if v := readVariant(tuv); v != nil {
			u.PutVariant(v)
		}
	}
	return u
}

func readVariant(n *node) *domain.Variant {
	seg := n.child("seg")
	if seg == nil {
		return nil
	}
	v := domain.NewVariant(languageOf(n), flatten(seg))
	for _, a := range n.attrs {
		if a.Name.Space != "" || isNamespaceDecl(a) {
			continue
		}
		v.Attributes.Set(a.Name.Local, a.Value)
	}
	v.Notes = readNotes(n)
	readProps(n, &v.Properties)
	return v
}

func languageOf(n *node) string {
	if lang, ok := n.attr(xmlNamespace, "lang"); ok && lang != "" {
		return lang
	}
	if lang, ok := n.attr("xml", "lang"); ok && lang != "" {
		return lang
	}
	return "unknown"
}

// flatten reduces a <seg> to plain text. Inline markup becomes a [tag]
// marker followed by the element's own text; attributes and nesting below
// the first level are dropped.
func flatten(seg *node) string {
	var b strings.Builder
	b.WriteString(seg.text)
	for _, c := range seg.children {
		if inlineTags[c.name.Local] {
			b.WriteString("[" + c.name.Local + "]")
		}
		b.WriteString(c.text)
		b.WriteString(c.tail)
	}
	return strings.TrimSpace(b.String())
}

func readNotes(n *node) []string {
	var out []string
	for _, note := range n.childrenNamed("note") {
		if note.text != "" {
			out = append(out, note.text)
		}
	}
	return out
}

// readProps folds <prop> children into dst. Later props with the same type
// overwrite earlier ones.
func readProps(n *node, dst *domain.Fields) {
	for _, prop := range n.childrenNamed("prop") {
		if prop.text == "" {
			continue
		}
		typ, ok := prop.attr("", "type")
		if !ok {
			typ = "unknown"
		}
		dst.Set(typ, prop.text)
	}
}

func attrKey(a xml.Attr) string {
	if a.Name.Space == "" {
		return a.Name.Local
	}
	return "{" + a.Name.Space + "}" + a.Name.Local
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}
