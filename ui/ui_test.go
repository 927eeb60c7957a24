package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/sample"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	b, err := sample.Bundle()
	if err != nil {
		t.Fatal(err)
	}
	l, err := sample.Log()
	if err != nil {
		t.Fatal(err)
	}
	s := replay.NewSession(b)
	if err := s.Load(l); err != nil {
		t.Fatal(err)
	}
	return NewModel(sample.Name, s)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_Update(t *testing.T) {
	m := newModel(t)
	tests := []struct {
		msg    tea.KeyMsg
		cursor int
	}{
		{msg: tea.KeyMsg{Type: tea.KeyRight}, cursor: 0},
		{msg: runes("l"), cursor: 1},
		{msg: tea.KeyMsg{Type: tea.KeyLeft}, cursor: 0},
		{msg: runes("G"), cursor: 45},
		{msg: runes("g"), cursor: -1},
		{msg: runes("x"), cursor: -1},
	}
	for i, tt := range tests {
		m.Update(tt.msg)
		if got := m.Snapshot().Cursor; got != tt.cursor {
			t.Fatalf("#%v: unexpected cursor: want %v, got %v", i, tt.cursor, got)
		}
	}
}

func TestModel_SemanticToggle(t *testing.T) {
	m := newModel(t)
	m.Update(runes("s"))
	if !m.Snapshot().Semantic {
		t.Fatal("semantic steps must be enabled")
	}
	for m.Snapshot().Cursor < 27 {
		m.Update(runes("l"))
	}
	if m.Snapshot().Cursor != 27 || m.Snapshot().SemanticStep == nil {
		t.Fatalf("the cursor must stop on the semantic step: %+v", m.Snapshot().Step)
	}
	m.Update(runes("s"))
	if c := m.Snapshot().Cursor; c == 27 {
		t.Fatal("the cursor must leave the semantic step when they are skipped")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quitting must return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quitting must return tea.Quit")
	}
	if m.View() != "" {
		t.Fatal("nothing must be drawn after quitting")
	}
}

func TestModel_View(t *testing.T) {
	m := newModel(t)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(runes("G"))
	v := m.View()
	for _, want := range []string{sample.Name, "Parser stack", "Symbol tables", "global", "AST", "step 46/46"} {
		if !strings.Contains(v, want) {
			t.Fatalf("the view must contain %q:\n%v", want, v)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		value string
		width int
		want  string
	}{
		{value: "abc", width: 5, want: "abc"},
		{value: "abcdef", width: 5, want: "ab..."},
		{value: "abcdef", width: 2, want: "ab"},
		{value: "abcdef", width: 0, want: "abcdef"},
		{value: "変数宣言", width: 5, want: "変..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.value, tt.width); got != tt.want {
			t.Fatalf("Truncate(%q, %v): want %q, got %q", tt.value, tt.width, tt.want, got)
		}
	}
}
