package app

import (
	"context"
	"errors"
	"fmt"

	"tmxedit/internal/domain"
	"tmxedit/internal/usecase/query"
	"tmxedit/internal/usecase/session"
	"tmxedit/internal/usecase/stats"
)

// EditorAPI is the surface the command line drives: open, browse, edit and
// save one document.
type EditorAPI struct {
	s        *session.Session
	pageSize int
}

func NewEditorAPI(s *session.Session, pageSize int) *EditorAPI {
	if pageSize <= 0 {
		pageSize = query.DefaultPageSize
	}
	return &EditorAPI{s: s, pageSize: pageSize}
}

type OpenRequest struct {
	Location     string `json:"location"`
	Format       string `json:"format"`
	Locale       string `json:"locale"`
	TargetLocale string `json:"target_locale"`
}

// Open starts loading a document; see session.Session.Open.
func (a *EditorAPI) Open(ctx context.Context, req OpenRequest) <-chan domain.ParseEvent {
	return a.s.Open(ctx, session.OpenArgs{
		Location:     req.Location,
		Format:       req.Format,
		Locale:       req.Locale,
		TargetLocale: req.TargetLocale,
	})
}

// OpenAndWait opens a document and blocks until it is loaded.
func (a *EditorAPI) OpenAndWait(ctx context.Context, req OpenRequest, progress func(int)) (stats.Summary, error) {
	if _, err := session.Wait(a.Open(ctx, req), progress); err != nil {
		return stats.Summary{}, err
	}
	return a.Info()
}

func (a *EditorAPI) Info() (stats.Summary, error) {
	doc := a.s.Document()
	if doc == nil {
		return stats.Summary{}, domain.ErrNoDocument
	}
	src, tgt := a.s.Languages()
	sum := stats.Summarize(doc, src, tgt)
	sum.Location = a.s.Location()
	return sum, nil
}

func (a *EditorAPI) SetLanguages(source, target string) error {
	return a.s.SetLanguages(source, target)
}

type SearchRequest struct {
	SourceQuery string `json:"source_query"`
	TargetQuery string `json:"target_query"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
}

// UnitRow is one table row. Index is the unit's position in the document.
type UnitRow struct {
	Row      int    `json:"row"`
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Modified bool   `json:"modified"`
}

type PageResponse struct {
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Page       int       `json:"page"`
	Pages      int       `json:"pages"`
	Total      int       `json:"total"`
	Rows       []UnitRow `json:"rows"`
}

func (a *EditorAPI) view(req SearchRequest) (*query.View, error) {
	size := req.PageSize
	if size <= 0 {
		size = a.pageSize
	}
	v, err := a.s.View(size)
	if err != nil {
		return nil, err
	}
	v.Filter(req.SourceQuery, req.TargetQuery)
	v.SetPage(req.Page)
	return v, nil
}

// Search filters the document and returns the requested page.
func (a *EditorAPI) Search(req SearchRequest) (PageResponse, error) {
	v, err := a.view(req)
	if err != nil {
		return PageResponse{}, err
	}
	src, tgt := a.s.Languages()
	index := a.indexOf()
	resp := PageResponse{
		SourceLang: src,
		TargetLang: tgt,
		Page:       v.PageIndex(),
		Pages:      v.PageCount(),
		Total:      v.Total(),
	}
	for row, u := range v.Page() {
		resp.Rows = append(resp.Rows, UnitRow{
			Row:      row,
			Index:    index[u],
			ID:       u.ID,
			Source:   u.Text(src),
			Target:   u.Text(tgt),
			Modified: u.Modified(),
		})
	}
	return resp, nil
}

func (a *EditorAPI) indexOf() map[*domain.TranslationUnit]int {
	doc := a.s.Document()
	if doc == nil {
		return nil
	}
	m := make(map[*domain.TranslationUnit]int, len(doc.Units))
	for i, u := range doc.Units {
		m[u] = i
	}
	return m
}

type VariantDetail struct {
	Language   string            `json:"language"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Notes      []string          `json:"notes,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type UnitDetail struct {
	Index      int               `json:"index"`
	ID         string            `json:"id,omitempty"`
	Modified   bool              `json:"modified"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Notes      []string          `json:"notes,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Variants   []VariantDetail   `json:"variants"`
}

// Unit returns everything stored on the unit at index.
func (a *EditorAPI) Unit(index int) (UnitDetail, error) {
	doc := a.s.Document()
	if doc == nil {
		return UnitDetail{}, domain.ErrNoDocument
	}
	if index < 0 || index >= len(doc.Units) {
		return UnitDetail{}, fmt.Errorf("unit index %d out of range [0, %d)", index, len(doc.Units))
	}
	u := doc.Units[index]
	d := UnitDetail{
		Index:      index,
		ID:         u.ID,
		Modified:   u.Modified(),
		Attributes: u.Attributes.Map(),
		Notes:      u.Notes,
		Properties: u.Properties.Map(),
	}
	for lang, v := range u.Variants() {
		d.Variants = append(d.Variants, VariantDetail{
			Language:   lang,
			Text:       v.Text(),
			Attributes: v.Attributes.Map(),
			Notes:      v.Notes,
			Properties: v.Properties.Map(),
		})
	}
	return d, nil
}

// EditRequest selects a unit by TUID or by document index. Lang defaults to
// the working target language.
type EditRequest struct {
	Index int    `json:"index"`
	TUID  string `json:"tuid"`
	Lang  string `json:"lang"`
	Text  string `json:"text"`
}

var ErrUnitNotFound = errors.New("unit not found")

func (a *EditorAPI) Edit(req EditRequest) error {
	doc := a.s.Document()
	if doc == nil {
		return domain.ErrNoDocument
	}
	index := req.Index
	if req.TUID != "" {
		index = -1
		for i, u := range doc.Units {
			if u.ID == req.TUID {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("%w: tuid %q", ErrUnitNotFound, req.TUID)
		}
	}
	return a.s.SetText(index, a.lang(req.Lang), req.Text)
}

// EditRow edits the unit shown at row of the page that req selects.
func (a *EditorAPI) EditRow(req SearchRequest, row int, lang, text string) error {
	v, err := a.view(req)
	if err != nil {
		return err
	}
	u, ok := v.At(row)
	if !ok {
		return fmt.Errorf("%w: row %d on page %d", ErrUnitNotFound, row, v.PageIndex())
	}
	return a.Edit(EditRequest{Index: a.indexOf()[u], Lang: lang, Text: text})
}

func (a *EditorAPI) lang(l string) string {
	if l != "" {
		return l
	}
	_, tgt := a.s.Languages()
	return tgt
}

func (a *EditorAPI) Save(ctx context.Context) error { return a.s.Save(ctx) }

func (a *EditorAPI) SaveAs(ctx context.Context, path string) error { return a.s.SaveAs(ctx, path) }

func (a *EditorAPI) Close() { a.s.Close() }
