package stats

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tmxedit/internal/adapters/parser/tmx"
	"tmxedit/internal/domain"
	"tmxedit/internal/usecase/query"
)

// Summary describes a document for its information panel.
type Summary struct {
	Location      string            `json:"location,omitempty"`
	Units         int               `json:"units"`
	Languages     []string          `json:"languages"`
	SourceLang    string            `json:"source_lang"`
	TargetLang    string            `json:"target_lang"`
	Variants      int               `json:"variants"`
	PerLanguage   map[string]int    `json:"per_language"`
	Notes         int               `json:"notes"`
	Properties    int               `json:"properties"`
	Modified      int               `json:"modified"`
	MissingSource int               `json:"missing_source"`
	MissingTarget int               `json:"missing_target"`
	Header        map[string]string `json:"header,omitempty"`
}

// Summarize counts what doc holds for the source/target pair. Empty
// languages are derived from the document.
func Summarize(doc *domain.Document, src, tgt string) Summary {
	if src == "" && tgt == "" {
		src, tgt = query.DetermineLanguages(doc)
	}
	s := Summary{
		Units:       doc.UnitCount(),
		Languages:   doc.Languages(),
		SourceLang:  src,
		TargetLang:  tgt,
		PerLanguage: map[string]int{},
		Notes:       len(doc.Header.Notes),
		Properties:  doc.Header.Properties.Len(),
		Modified:    doc.ModifiedCount(),
		Header:      doc.Header.Attributes.Map(),
	}
	for _, u := range doc.Units {
		s.Notes += len(u.Notes)
		s.Properties += u.Properties.Len()
		for lang, v := range u.Variants() {
			s.Variants++
			s.PerLanguage[lang]++
			s.Notes += len(v.Notes)
			s.Properties += v.Properties.Len()
		}
		if _, ok := u.Variant(src); !ok {
			s.MissingSource++
		}
		if _, ok := u.Variant(tgt); !ok {
			s.MissingTarget++
		}
	}
	return s
}

// SummarizeFiles reads TMX files concurrently, at most jobs at a time.
// Results follow the order of paths; the first error cancels the rest.
func SummarizeFiles(ctx context.Context, paths []string, jobs int) ([]Summary, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	out := make([]Summary, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	parser := tmx.New()
	for i, path := range paths {
		g.Go(func() error {
			doc, err := parser.ReadFile(ctx, path, nil)
			if err != nil {
				return err
			}
			out[i] = Summarize(doc, "", "")
			out[i].Location = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
