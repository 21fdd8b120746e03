package domain

// CreationTool names this program in headers it writes.
const CreationTool = "tmxedit"

// DefaultLocale is used for key/value files when no locale is given.
const DefaultLocale = "en"

// NewKeyValueDocument starts a document converted from a single-locale
// key/value file in the given format.
func NewKeyValueDocument(sourceLang, format string) *Document {
	if sourceLang == "" {
		sourceLang = DefaultLocale
	}
	doc := &Document{}
	h := &doc.Header.Attributes
	h.Set("creationtool", CreationTool)
	h.Set("datatype", "plaintext")
	h.Set("segtype", "block")
	h.Set("o-tmf", format)
	h.Set("adminlang", sourceLang)
	h.Set("srclang", sourceLang)
	return doc
}

// AddPair appends a unit holding text in lang under key.
func (d *Document) AddPair(key, lang, text string) *TranslationUnit {
	u := NewUnit(key)
	u.PutVariant(NewVariant(lang, text))
	d.Units = append(d.Units, u)
	return u
}
