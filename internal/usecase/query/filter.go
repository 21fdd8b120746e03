package query

import (
	"strings"

	"golang.org/x/text/cases"

	"tmxedit/internal/domain"
)

const DefaultPageSize = 100

// Filter returns the units whose source text contains sourceQuery and whose
// target text contains targetQuery, ignoring case. An empty query matches
// everything; a missing variant reads as empty text. Document order is kept.
func Filter(doc *domain.Document, sourceLang, targetLang, sourceQuery, targetQuery string) []*domain.TranslationUnit {
	if doc == nil {
		return nil
	}
	fold := cases.Fold()
	sq := fold.String(sourceQuery)
	tq := fold.String(targetQuery)
	out := make([]*domain.TranslationUnit, 0, len(doc.Units))
	for _, u := range doc.Units {
		if sq != "" && !strings.Contains(fold.String(u.Text(sourceLang)), sq) {
			continue
		}
		if tq != "" && !strings.Contains(fold.String(u.Text(targetLang)), tq) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// PageCount returns how many pages of pageSize hold n units.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage limits pageIndex to the valid range for n units, 0 when n is 0.
func ClampPage(pageIndex, n, pageSize int) int {
	last := PageCount(n, pageSize) - 1
	if pageIndex > last {
		pageIndex = last
	}
	return max(pageIndex, 0)
}

// Paginate returns the clamped page of units. The result shares units' backing array.
func Paginate(units []*domain.TranslationUnit, pageIndex, pageSize int) []*domain.TranslationUnit {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pageIndex = ClampPage(pageIndex, len(units), pageSize)
	start := pageIndex * pageSize
	end := min(len(units), start+pageSize)
	return units[start:end]
}

// DetermineLanguages picks the working pair from the header srclang and the
// first unit's variants. Both are empty for a document without units; when
// the first unit has no variants only the header srclang is used.
func DetermineLanguages(doc *domain.Document) (source, target string) {
	if doc == nil || len(doc.Units) == 0 {
		return "", ""
	}
	source, _ = doc.Header.Attributes.Get("srclang")
	langs := doc.Units[0].Languages()
	if len(langs) == 0 {
		return source, ""
	}
	if _, ok := doc.Units[0].Variant(source); !ok {
		source = langs[0]
	}
	target = source
	for _, l := range langs {
		if l != source {
			target = l
			break
		}
	}
	return source, target
}
