package ports

import (
	"context"
	"math"

	"tmxedit/internal/domain"
)

type ParseOptions struct {
	// Locale and TargetLocale name the languages of single-locale key/value
	// formats. TMX carries its own languages and ignores them.
	Locale       string
	TargetLocale string
	// Progress, when set, receives percentages as units are processed.
	Progress func(percent int)
}

type Parser interface {
	Format() string
	Parse(ctx context.Context, data []byte, opts ParseOptions) (*domain.Document, error)
}

// Report forwards the progress of done out of total units, if anyone listens.
func (o ParseOptions) Report(done, total int) {
	if o.Progress != nil && total > 0 {
		o.Progress(Percent(done, total))
	}
}

// Percent rounds done/total to a whole percentage. Any progress at all
// reports at least 1.
func Percent(done, total int) int {
	p := int(math.Round(100 * float64(done) / float64(total)))
	return min(max(p, 1), 100)
}
