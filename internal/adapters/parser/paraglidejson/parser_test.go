package paraglidejson

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tmxedit/internal/ports"
)

func TestParseKeepsOrder(t *testing.T) {
	data := `{"$schema": "https://inlang.com/schema", "zeta": "Z", "nested": {"a": "b"}, "alpha": "A", "count": 3}`
	doc, err := New().Parse(context.Background(), []byte(data), ports.ParseOptions{Locale: "de"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var got [][2]string
	for _, u := range doc.Units {
		got = append(got, [2]string{u.ID, u.Text("de")})
	}
	if diff := cmp.Diff([][2]string{{"zeta", "Z"}, {"alpha", "A"}}, got); diff != "" {
		t.Fatalf("units (-want +got):\n%s", diff)
	}
	if src, _ := doc.Header.Attributes.Get("srclang"); src != "de" {
		t.Fatalf("srclang = %q", src)
	}
}

func TestParseDefaultLocaleAndErrors(t *testing.T) {
	doc, err := New().Parse(context.Background(), []byte(`{"k": "v"}`), ports.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Units[0].Text("en") != "v" {
		t.Fatalf("default locale variant missing: %v", doc.Units[0].Languages())
	}
	for _, bad := range []string{`[1,2]`, `{"a": `, ``} {
		if _, err := New().Parse(context.Background(), []byte(bad), ports.ParseOptions{}); err == nil {
			t.Errorf("Parse(%q) succeeded", bad)
		}
	}
}
