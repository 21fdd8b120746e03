package query

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tmxedit/internal/domain"
)

func unit(id string, texts ...string) *domain.TranslationUnit {
	u := domain.NewUnit(id)
	for i := 0; i+1 < len(texts); i += 2 {
		u.PutVariant(domain.NewVariant(texts[i], texts[i+1]))
	}
	return u
}

func ids(units []*domain.TranslationUnit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.ID)
	}
	return out
}

func greetings() *domain.Document {
	return &domain.Document{Units: []*domain.TranslationUnit{
		unit("1", "en", "Hello world", "fr", "Bonjour"),
		unit("2", "en", "Goodbye", "fr", "Au revoir"),
	}}
}

func TestFilter(t *testing.T) {
	doc := greetings()
	tests := []struct {
		name   string
		sq, tq string
		want   []string
	}{
		{"source query", "hello", "", []string{"1"}},
		{"target query", "", "au", []string{"2"}},
		{"empty queries", "", "", []string{"1", "2"}},
		{"both must match", "hello", "au", []string{}},
		{"case folded", "GOODBYE", "REVOIR", []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(doc, "en", "fr", tt.sq, tt.tq))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Filter (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterMissingLanguageReadsEmpty(t *testing.T) {
	doc := &domain.Document{Units: []*domain.TranslationUnit{
		unit("1", "en", "Hello"),
		unit("2", "en", "Hello", "fr", "Salut"),
	}}
	if diff := cmp.Diff([]string{"1", "2"}, ids(Filter(doc, "en", "fr", "hello", ""))); diff != "" {
		t.Errorf("empty target query (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2"}, ids(Filter(doc, "en", "fr", "", "s"))); diff != "" {
		t.Errorf("target query (-want +got):\n%s", diff)
	}
}

func manyUnits(n int) []*domain.TranslationUnit {
	out := make([]*domain.TranslationUnit, n)
	for i := range out {
		out[i] = unit(fmt.Sprint(i), "en", "x")
	}
	return out
}

func TestPaginate(t *testing.T) {
	units := manyUnits(250)
	for page, want := range []int{100, 100, 50} {
		if got := len(Paginate(units, page, 100)); got != want {
			t.Errorf("page %d has %d units, want %d", page, got, want)
		}
	}
	last := Paginate(units, 5, 100)
	if len(last) != 50 || last[0].ID != "200" {
		t.Errorf("page 5 should clamp to page 2, got %d units starting at %s", len(last), last[0].ID)
	}
	if got := Paginate(units, -3, 100); got[0].ID != "0" {
		t.Errorf("negative page should clamp to 0, got %s", got[0].ID)
	}
	if got := Paginate(nil, 4, 100); len(got) != 0 {
		t.Errorf("empty list page = %d units", len(got))
	}
}

func TestPageCountAndClamp(t *testing.T) {
	if got := PageCount(250, 100); got != 3 {
		t.Errorf("PageCount(250, 100) = %d", got)
	}
	if got := PageCount(0, 100); got != 0 {
		t.Errorf("PageCount(0, 100) = %d", got)
	}
	if got := ClampPage(7, 0, 100); got != 0 {
		t.Errorf("ClampPage on empty list = %d", got)
	}
}

func TestDetermineLanguages(t *testing.T) {
	tests := []struct {
		name    string
		srclang string
		first   *domain.TranslationUnit
		wantSrc string
		wantTgt string
	}{
		{"header matches", "en", unit("1", "en", "a", "fr", "b"), "en", "fr"},
		{"header second language", "fr", unit("1", "en", "a", "fr", "b"), "fr", "en"},
		{"header absent from variants", "de", unit("1", "en", "a", "fr", "b"), "en", "fr"},
		{"no header srclang", "", unit("1", "ja", "a", "en", "b"), "ja", "en"},
		{"single language", "en", unit("1", "en", "a"), "en", "en"},
		{"no variants", "en", unit("1"), "en", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &domain.Document{Units: []*domain.TranslationUnit{tt.first}}
			if tt.srclang != "" {
				doc.Header.Attributes.Set("srclang", tt.srclang)
			}
			src, tgt := DetermineLanguages(doc)
			if src != tt.wantSrc || tgt != tt.wantTgt {
				t.Errorf("got (%q, %q), want (%q, %q)", src, tgt, tt.wantSrc, tt.wantTgt)
			}
		})
	}

	src, tgt := DetermineLanguages(&domain.Document{})
	if src != "" || tgt != "" {
		t.Errorf("empty document: got (%q, %q)", src, tgt)
	}
}
