package paraglidejson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "paraglidejson" }

type pair struct{ key, value string }

// Parse reads a flat JSON object { key: value, ... }. Keys keep file order;
// non-string values and $-prefixed metadata keys are skipped.
func (p *Parser) Parse(ctx context.Context, data []byte, opts ports.ParseOptions) (*domain.Document, error) {
	// Strip UTF-8 BOM if present
	data = stripBOM(data)
	pairs, err := readObject(data)
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	doc := domain.NewKeyValueDocument(opts.Locale, p.Format())
	srcLang, _ := doc.Header.Attributes.Get("srclang")
	doc.Units = make([]*domain.TranslationUnit, 0, len(pairs))
	for i, kv := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.AddPair(kv.key, srcLang, kv.value)
		opts.Report(i+1, len(pairs))
	}
	return doc, nil
}

func readObject(data []byte) ([]pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}
	var out []pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		// Ignore metadata fields like $schema
		if len(key) > 0 && key[0] == '$' {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		out = append(out, pair{key: key, value: s})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
