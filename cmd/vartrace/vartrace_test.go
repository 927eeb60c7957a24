package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/sample"
)

func newSampleSession(t *testing.T) *replay.Session {
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
	return s
}

func TestWriteSteps(t *testing.T) {
	color.NoColor = true
	s := newSampleSession(t)
	var b bytes.Buffer
	if err := writeSteps(&b, sample.Name, s); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	// A heading, a blank line, and one line per step.
	if len(lines) != 2+s.Len() {
		t.Fatalf("unexpected line count: %v\n%v", len(lines), b.String())
	}
	if !strings.HasPrefix(lines[0], "# "+sample.Name) {
		t.Fatalf("unexpected heading: %v", lines[0])
	}
}

func TestWriteStats(t *testing.T) {
	color.NoColor = true
	s := newSampleSession(t)
	var b bytes.Buffer
	if err := writeStats(&b, sample.Name, s.Stats()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "steps:     46\n") {
		t.Fatalf("unexpected stats:\n%v", b.String())
	}
}

func TestWriteSnapshot(t *testing.T) {
	s := newSampleSession(t)
	s.Jump(s.Len() - 1)
	var b bytes.Buffer
	if err := writeSnapshot(&b, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"# Symbol Tables", "## global #0", "# AST", "# Automaton", "# Rule"} {
		if !strings.Contains(out, want) {
			t.Fatalf("the report must contain %q:\n%v", want, out)
		}
	}

	s.Jump(-1)
	b.Reset()
	if err := writeSnapshot(&b, s.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "before the first step") {
		t.Fatalf("unexpected report:\n%v", b.String())
	}
}

func TestWriteStates(t *testing.T) {
	bundle, err := sample.Bundle()
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := writeStates(&b, bundle.Grammar, bundle.States); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"# Rules", "# States", "## State 0", "shift "} {
		if !strings.Contains(out, want) {
			t.Fatalf("the report must contain %q:\n%v", want, out)
		}
	}

	b.Reset()
	if err := writeStates(&b, nil, bundle.States); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(b.String(), "# Rules") {
		t.Fatalf("rules must be left out without a grammar:\n%v", b.String())
	}
}

func TestRunLineStepper(t *testing.T) {
	s := newSampleSession(t)
	var b bytes.Buffer
	in := strings.NewReader("n\n\n10\np\ns\nbogus\nq\nn\n")
	if err := runLineStepper(in, &b, s); err != nil {
		t.Fatal(err)
	}
	if s.Cursor() != 9 {
		t.Fatalf("unexpected cursor: %v", s.Cursor())
	}
	if !s.Semantic() {
		t.Fatal("semantic steps must be enabled")
	}
	if !strings.Contains(b.String(), "unknown command: bogus") {
		t.Fatalf("unexpected output:\n%v", b.String())
	}
}
