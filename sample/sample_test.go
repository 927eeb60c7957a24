package sample

import (
	"strings"
	"testing"

	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
)

func newSession(t *testing.T, opts ...replay.Option) *replay.Session {
	t.Helper()
	b, err := Bundle()
	if err != nil {
		t.Fatal(err)
	}
	l, err := Log()
	if err != nil {
		t.Fatal(err)
	}
	s := replay.NewSession(b, opts...)
	if err := s.Load(l); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSample_Decodes(t *testing.T) {
	l, err := Log()
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 46 {
		t.Fatalf("unexpected step count: %v", l.Len())
	}
	if st := l.Stats(); st.Unknown != 0 || st.Unread != 0 {
		t.Fatalf("every step of the sample must be readable: %+v", st)
	}
	if !strings.HasPrefix(Source(), "int i = 2;") {
		t.Fatalf("unexpected source: %q", Source())
	}
}

func TestSample_Replay(t *testing.T) {
	s := newSession(t, replay.WithSemantic(true))
	tests := []struct {
		cursor int
		kind   automaton.TargetKind
		to     int
	}{
		{cursor: 3, kind: automaton.TargetShift, to: 1},
		{cursor: 6, kind: automaton.TargetDefault},
		{cursor: 10, kind: automaton.TargetGoTo, to: 3},
		{cursor: 13, kind: automaton.TargetShift, to: 6},
		{cursor: 25, kind: automaton.TargetDefault},
		{cursor: 33, kind: automaton.TargetGoTo, to: 4},
		{cursor: 40, kind: automaton.TargetGoTo, to: 2},
		{cursor: 43, kind: automaton.TargetDefault},
	}
	for _, tt := range tests {
		s.Jump(tt.cursor)
		h := s.Snapshot().Highlight
		if h == nil || h.Kind != tt.kind || h.To != tt.to {
			t.Fatalf("cursor %v: unexpected highlight: %+v", tt.cursor, h)
		}
	}

	s.Jump(27)
	snap := s.Snapshot()
	if snap.SemanticStep == nil || snap.SemanticStep.StepNo != 1 {
		t.Fatalf("unexpected semantic step: %+v", snap.SemanticStep)
	}

	s.Jump(s.Len() - 1)
	snap = s.Snapshot()
	global, ok := snap.Scopes.Scope(0)
	if !ok || len(global.Symbols) != 1 || global.Symbols[0].Type != "int" {
		t.Fatalf("unexpected global scope: %+v", global)
	}
	if len(snap.AST.Nodes) != 4 || len(snap.AST.Edges) != 3 {
		t.Fatalf("unexpected ast: %+v", snap.AST)
	}
	if snap.Rule == nil || snap.Rule.RuleNo != 1 {
		t.Fatalf("unexpected rule: %+v", snap.Rule)
	}
}

func TestSample_SkipsSemanticSteps(t *testing.T) {
	s := newSession(t)
	for s.Next() != s.Len()-1 {
		ev, _ := s.Log().At(s.Cursor())
		if ev.Kind() == event.KindSemanticStep {
			t.Fatalf("the cursor landed on a semantic step at %v", s.Cursor())
		}
	}
}
