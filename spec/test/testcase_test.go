package test

import (
	"strings"
	"testing"

	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/rule"
	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/nihei9/vartrace/symtab"
)

func TestParseTestCase(t *testing.T) {
	src := `
name: inline
semantic: true
steps:
  - type: PARSE_CREATE_SCOPE
    data: {table_id: 1, name: main, parent_id: "0"}
  - type: PARSE_ADD_SYM
    data: {scope_id: 1, name: i, sym_type: int}
checkpoints:
  - jump: 1
    moves: [prev, next]
    expect:
      focus: 1
      scopes:
        - id: 1
          name: main
          parent: 0
          symbols:
            - {name: i, type: int}
`
	c, err := ParseTestCase(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "inline" || !c.Semantic || len(c.Checkpoints) != 1 {
		t.Fatalf("unexpected test case: %+v", c)
	}
	cp := c.Checkpoints[0]
	if cp.Jump == nil || *cp.Jump != 1 || len(cp.Moves) != 2 || cp.Moves[0] != MovePrev {
		t.Fatalf("unexpected checkpoint: %+v", cp)
	}
	doc, err := c.InlineDocument()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Phases) != 1 || len(doc.Phases[0].Steps) != 2 || doc.Phases[0].Steps[1].Type != "PARSE_ADD_SYM" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestParseTestCase_Invalid(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "no log",
			src:     "checkpoints: [{jump: 0}]\n",
		},
		{
			caption: "both logs",
			src:     "log: a.json\nsteps: [{type: X}]\ncheckpoints: [{jump: 0}]\n",
		},
		{
			caption: "no checkpoint",
			src:     "log: a.json\n",
		},
		{
			caption: "unknown move",
			src:     "log: a.json\ncheckpoints: [{moves: [sideways]}]\n",
		},
		{
			caption: "unknown field",
			src:     "log: a.json\ncheckpoints: [{jump: 0, expect: {colour: red}}]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if _, err := ParseTestCase(strings.NewReader(tt.src)); err == nil {
				t.Fatalf("an error must be returned")
			}
		})
	}
}

func intp(n int) *int {
	return &n
}

func strp(s string) *string {
	return &s
}

func newSnapshot() *replay.Snapshot {
	typ := "int"
	return &replay.Snapshot{
		Cursor: 4,
		Scopes: &symtab.State{
			Scopes: []*symtab.Scope{
				{ID: 0, Name: "global", Children: []int{1}},
				{ID: 1, Name: "main", ParentID: intp(0), Symbols: []*symtab.Symbol{
					{Name: "i", Type: typ},
				}},
			},
			FocusID: intp(1),
		},
		AST: &replay.AST{
			Nodes: []*blueprint.ASTNode{{ID: 0}, {ID: 2}},
		},
		Automaton: &automaton.Snapshot{
			StateStack: []int{0, 4},
		},
		Highlight: &automaton.Target{State: 4, Kind: automaton.TargetShift, Symbol: "ID", To: 7},
		Rule:      &rule.Active{RuleNo: 21},
	}
}

func TestDiffSnapshot(t *testing.T) {
	tests := []struct {
		caption string
		exp     *Expect
		paths   []string
	}{
		{
			caption: "every fact matches",
			exp: &Expect{
				Cursor: intp(4),
				Focus:  intp(1),
				Scopes: []*ExpectedScope{
					{ID: 0, Name: strp("global"), Root: true},
					{ID: 1, Parent: intp(0), Symbols: []*ExpectedSymbol{{Name: "i", Type: strp("int")}}},
				},
				VisibleNodes: []int{0, 2},
				VisibleEdges: []string{},
				ActiveState:  intp(4),
				Highlight:    &ExpectedHighlight{Kind: "shift", Symbol: strp("ID"), To: intp(7)},
				Rule:         intp(21),
			},
		},
		{
			caption: "mismatches are reported per fact",
			exp: &Expect{
				Focus: intp(0),
				Scopes: []*ExpectedScope{
					{ID: 1, Symbols: []*ExpectedSymbol{{Name: "i", Type: strp("char")}}},
					{ID: 9},
				},
				VisibleNodes: []int{0},
				ActiveState:  intp(5),
				Highlight:    &ExpectedHighlight{Kind: "goto"},
				Rule:         intp(20),
				SemanticStep: &ExpectedStep{Rule: 20, Step: 1},
			},
			paths: []string{
				"focus",
				"scopes[1].symbols[0].type",
				"scopes[9]",
				"visible_nodes",
				"active_state",
				"highlight.kind",
				"rule",
				"semantic_step",
			},
		},
		{
			caption: "absent facts",
			exp: &Expect{
				NoFocus:     true,
				NoHighlight: true,
			},
			paths: []string{
				"focus",
				"highlight",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			diffs := DiffSnapshot(tt.exp, newSnapshot())
			if len(diffs) != len(tt.paths) {
				var msgs []string
				for _, d := range diffs {
					msgs = append(msgs, d.Message)
				}
				t.Fatalf("unexpected diffs: want: %v, got: %v", tt.paths, msgs)
			}
			for i, d := range diffs {
				if d.Path != tt.paths[i] {
					t.Fatalf("unexpected diff #%v: want: %v, got: %v", i, tt.paths[i], d.Path)
				}
			}
		})
	}
}
