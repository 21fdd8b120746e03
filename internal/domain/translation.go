package domain

import "iter"

// Document is a parsed translation memory. Units keep document order.
type Document struct {
	Header Header
	Units  []*TranslationUnit
}

type Header struct {
	Attributes Fields
	Notes      []string
	Properties Fields
}

func (d *Document) UnitCount() int { return len(d.Units) }

// ModifiedCount reports how many units were edited since the last save.
func (d *Document) ModifiedCount() int {
	n := 0
	for _, u := range d.Units {
		if u.modified {
			n++
		}
	}
	return n
}

// ClearModified resets the modified flag on every unit. Callers run it after
// a successful write.
func (d *Document) ClearModified() {
	for _, u := range d.Units {
		u.modified = false
	}
}

// Languages returns every variant language in first-seen order.
func (d *Document) Languages() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, u := range d.Units {
		for _, lang := range u.variants.keys {
			if _, ok := seen[lang]; ok {
				continue
			}
			seen[lang] = struct{}{}
			out = append(out, lang)
		}
	}
	return out
}

// TranslationUnit owns its variants; they are reachable only through the
// unit so edits always flip the modified flag.
type TranslationUnit struct {
	ID         string
	Attributes Fields
	Notes      []string
	Properties Fields

	variants Ordered[*Variant]
	modified bool
}

func NewUnit(id string) *TranslationUnit { return &TranslationUnit{ID: id} }

// PutVariant stores v under its language. A second variant for the same
// language replaces the first and keeps its position.
func (u *TranslationUnit) PutVariant(v *Variant) { u.variants.Set(v.Language, v) }

func (u *TranslationUnit) Variant(lang string) (*Variant, bool) { return u.variants.Get(lang) }

// Text returns the variant text for lang, or "" when the unit has none.
func (u *TranslationUnit) Text(lang string) string {
	if v, ok := u.variants.Get(lang); ok {
		return v.text
	}
	return ""
}

func (u *TranslationUnit) Variants() iter.Seq2[string, *Variant] { return u.variants.All() }

func (u *TranslationUnit) Languages() []string { return u.variants.Keys() }

func (u *TranslationUnit) VariantCount() int { return u.variants.Len() }

// SetText replaces the text of an existing variant and marks the unit
// modified. It returns false when the unit has no variant for lang.
func (u *TranslationUnit) SetText(lang, text string) bool {
	v, ok := u.variants.Get(lang)
	if !ok {
		return false
	}
	v.text = text
	u.modified = true
	return true
}

func (u *TranslationUnit) Modified() bool { return u.modified }

func (u *TranslationUnit) ClearModified() { u.modified = false }

// Variant is one language of a unit. Text is flat: inline markup was reduced
// to bracket markers when the file was read.
type Variant struct {
	Language   string
	Attributes Fields
	Notes      []string
	Properties Fields

	text string
}

func NewVariant(lang, text string) *Variant { return &Variant{Language: lang, text: text} }

func (v *Variant) Text() string { return v.text }
