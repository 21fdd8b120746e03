package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"tmxedit/internal/domain"
)

func feed(events ...domain.ParseEvent) <-chan domain.ParseEvent {
	ch := make(chan domain.ParseEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func TestPrintOpen(t *testing.T) {
	doc := &domain.Document{Units: []*domain.TranslationUnit{domain.NewUnit("1")}}
	var out strings.Builder
	got, err := PrintOpen("a.tmx", feed(
		domain.Progress{Percent: 1},
		domain.Progress{Percent: 5},
		domain.Progress{Percent: 50},
		domain.Progress{Percent: 100},
		domain.Done{Document: doc, TotalUnits: 1},
	), &out)
	if err != nil || got != doc {
		t.Fatalf("PrintOpen = %v, %v", got, err)
	}
	want := "opening a.tmx: 1%\nopening a.tmx: 50%\nopening a.tmx: 100%\n"
	if out.String() != want {
		t.Fatalf("output = %q", out.String())
	}
}

func TestPrintOpenFailure(t *testing.T) {
	cause := errors.New("boom")
	_, err := PrintOpen("a.tmx", feed(domain.Failed{Message: "boom", Err: cause}), &strings.Builder{})
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v", err)
	}
}

func TestModelView(t *testing.T) {
	m := newOpenModel("memory.tmx", nil)
	m.Update(eventMsg{ev: domain.Progress{Percent: 40}})
	if v := m.View(); !strings.Contains(v, "memory.tmx") || !strings.Contains(v, "40%") {
		t.Fatalf("view = %q", v)
	}
	m.Update(eventMsg{ev: domain.Failed{Message: "bad"}})
	m.Update(doneMsg{})
	if v := m.View(); !strings.Contains(v, "failed") {
		t.Fatalf("view = %q", v)
	}
	if _, err := m.result(); err == nil || err.Error() != "bad" {
		t.Fatalf("result err = %v", err)
	}
}

func TestTruncate(t *testing.T) {
	got := truncate("日本語のファイル名.tmx", 10)
	if runewidth.StringWidth(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short.tmx", 10); got != "short.tmx" {
		t.Fatalf("truncate = %q", got)
	}
}
