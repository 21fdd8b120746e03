package ports

import (
	"context"
	"fmt"

	"tmxedit/internal/domain"
)

type ExportOptions struct {
	SourceLang string
	TargetLang string
	// Language is a display name some formats put in their header.
	Language string
	// Separator selects the CSV delimiter: comma, semicolon or tab.
	Separator string
}

type Exporter interface {
	Format() string
	Export(doc *domain.Document, opts ExportOptions) ([]byte, error)
}

// DocumentWriter saves a whole document to a local path.
type DocumentWriter interface {
	WriteFile(ctx context.Context, doc *domain.Document, path string) error
}

// ExportItem is one key/value row of a single-locale export.
type ExportItem struct {
	Key         string
	SourceText  string
	Translation string
}

// Value is the translation, or the source text when there is none.
func (it ExportItem) Value() string {
	if it.Translation == "" {
		return it.SourceText
	}
	return it.Translation
}

// Items flattens doc into rows for the source/target pair in opts. Units
// without a tuid are keyed tu-<n>, counting from 1 in document order.
func Items(doc *domain.Document, opts ExportOptions) []ExportItem {
	items := make([]ExportItem, 0, len(doc.Units))
	for i, u := range doc.Units {
		key := u.ID
		if key == "" {
			key = fmt.Sprintf("tu-%d", i+1)
		}
		items = append(items, ExportItem{
			Key:         key,
			SourceText:  u.Text(opts.SourceLang),
			Translation: u.Text(opts.TargetLang),
		})
	}
	return items
}
