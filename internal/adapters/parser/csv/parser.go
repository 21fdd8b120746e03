package csvparser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "csv" }

// Parse reads a CSV file with a header row. A key column and a source column
// are required; translation and context columns are optional.
func (p *Parser) Parse(ctx context.Context, data []byte, opts ports.ParseOptions) (*domain.Document, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.Comma = sniffComma(data)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	keyIdx, ok := idx["key"]
	if !ok {
		return nil, errors.New("csv missing 'key' column")
	}
	// Support source column names
	srcIdx := column(idx, "source", "value", "text", "default")
	if srcIdx == -1 {
		return nil, errors.New("csv missing source column (source/value/text/default)")
	}
	tgtIdx := -1
	if opts.TargetLocale != "" {
		tgtIdx = column(idx, "translation", "target")
	}
	ctxIdx := column(idx, "context")

	doc := domain.NewKeyValueDocument(opts.Locale, p.Format())
	srcLang, _ := doc.Header.Attributes.Get("srclang")
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if keyIdx >= len(rec) || rec[keyIdx] == "" {
			continue
		}
		rows = append(rows, rec)
	}
	for i, rec := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u := doc.AddPair(rec[keyIdx], srcLang, cell(rec, srcIdx))
		if t := cell(rec, tgtIdx); t != "" {
			u.PutVariant(domain.NewVariant(opts.TargetLocale, t))
		}
		if c := cell(rec, ctxIdx); c != "" {
			u.Notes = append(u.Notes, c)
		}
		opts.Report(i+1, len(rows))
	}
	return doc, nil
}

func column(idx map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// sniffComma picks the delimiter used in the header line.
func sniffComma(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	best, count := ',', bytes.Count(line, []byte(","))
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > count {
			best, count = c, n
		}
	}
	return best
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
