package query

import "tmxedit/internal/domain"

// View is the filtered, paged list a table shows. It never mutates the
// document.
type View struct {
	doc         *domain.Document
	sourceLang  string
	targetLang  string
	sourceQuery string
	targetQuery string
	pageSize    int
	page        int
	units       []*domain.TranslationUnit
}

// NewView starts with every unit of doc on page 0.
func NewView(doc *domain.Document, sourceLang, targetLang string, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	v := &View{doc: doc, sourceLang: sourceLang, targetLang: targetLang, pageSize: pageSize}
	v.Filter("", "")
	return v
}

// Filter recomputes the list and goes back to the first page.
func (v *View) Filter(sourceQuery, targetQuery string) []*domain.TranslationUnit {
	v.sourceQuery, v.targetQuery = sourceQuery, targetQuery
	v.units = Filter(v.doc, v.sourceLang, v.targetLang, sourceQuery, targetQuery)
	v.page = 0
	return v.units
}

// SetLanguages switches the working pair and refilters with the current queries.
func (v *View) SetLanguages(sourceLang, targetLang string) {
	v.sourceLang, v.targetLang = sourceLang, targetLang
	v.Filter(v.sourceQuery, v.targetQuery)
}

func (v *View) Units() []*domain.TranslationUnit { return v.units }
func (v *View) Total() int { return len(v.units) }
func (v *View) PageSize() int { return v.pageSize }
func (v *View) PageIndex() int { return v.page }
func (v *View) PageCount() int { return PageCount(len(v.units), v.pageSize) }

func (v *View) Page() []*domain.TranslationUnit { return Paginate(v.units, v.page, v.pageSize) }

// SetPage moves to pageIndex, clamped to the available pages, and returns
// the page actually selected.
func (v *View) SetPage(pageIndex int) int {
	v.page = ClampPage(pageIndex, len(v.units), v.pageSize)
	return v.page
}

func (v *View) First() int { return v.SetPage(0) }
func (v *View) Prev() int { return v.SetPage(v.page - 1) }
func (v *View) Next() int { return v.SetPage(v.page + 1) }
func (v *View) Last() int { return v.SetPage(v.PageCount() - 1) }

// At maps a row of the current page to its unit.
func (v *View) At(row int) (*domain.TranslationUnit, bool) {
	i := v.page*v.pageSize + row
	if row < 0 || row >= v.pageSize || i >= len(v.units) {
		return nil, false
	}
	return v.units[i], true
}
