package valvevdf

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strings"

	"tmxedit/internal/domain"
	"tmxedit/internal/ports"
)

var pairRE = regexp.MustCompile(`"([^"]+)"\s+"((?:[^"\\]|\\.)*)"`)

type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "valvevdf" }

// Parse reads the "tokens" block of a Valve localization file. The file's
// own "Language" value is used when no locale is given.
func (p *Parser) Parse(ctx context.Context, data []byte, opts ports.ParseOptions) (*domain.Document, error) {
	data = stripBOM(data)
	// Minimal scanner for tokens inside `tokens { ... }` block.
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	inTokens := false
	language := ""
	var pairs [][2]string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), `"tokens"`) {
			inTokens = true
			continue
		}
		m := pairRE.FindStringSubmatch(line)
		if !inTokens {
			if len(m) == 3 && strings.EqualFold(m[1], "language") {
				language = m[2]
			}
			continue
		}
		if strings.HasPrefix(line, "}") { // tokens block end
			inTokens = false
			continue
		}
		if len(m) == 3 {
			pairs = append(pairs, [2]string{m[1], unescape(m[2])})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	locale := opts.Locale
	if locale == "" {
		locale = languageCode(language)
	}
	doc := domain.NewKeyValueDocument(locale, p.Format())
	srcLang, _ := doc.Header.Attributes.Get("srclang")
	doc.Units = make([]*domain.TranslationUnit, 0, len(pairs))
	for i, kv := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc.AddPair(kv[0], srcLang, kv[1])
		opts.Report(i+1, len(pairs))
	}
	return doc, nil
}

var unescaper = strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\t`, "\t", `\\`, `\`)

func unescape(s string) string { return unescaper.Replace(s) }

// languageCode maps the Valve language names seen most often to codes.
func languageCode(name string) string {
	switch strings.ToLower(name) {
	case "english":
		return "en"
	case "french":
		return "fr"
	case "german":
		return "de"
	case "spanish":
		return "es"
	case "russian":
		return "ru"
	case "japanese":
		return "ja"
	case "schinese":
		return "zh-CN"
	case "tchinese":
		return "zh-TW"
	case "brazilian":
		return "pt-BR"
	case "":
		return ""
	}
	return strings.ToLower(name)
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
