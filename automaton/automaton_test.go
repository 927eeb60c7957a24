package automaton

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

func rulep(n int) *int {
	return &n
}

func newTable() *blueprint.StateTable {
	return &blueprint.StateTable{
		States: []*blueprint.State{
			{
				State: 0,
				Shifts: []*blueprint.Shift{
					{Symbol: "INT", To: 1},
					{Symbol: "INT", To: 9},
				},
				GoTos: []*blueprint.GoTo{
					{Symbol: "decl", To: 2},
					{Symbol: "type_spec", To: 3},
				},
			},
			{
				State: 1,
				Default: &blueprint.DefaultAction{
					Action: blueprint.DefaultActionReduce,
					Rule:   rulep(21),
					LHS:    "type_spec",
				},
			},
			{
				State: 2,
				Shifts: []*blueprint.Shift{
					{Symbol: "ID", To: 4},
				},
			},
			{
				State: 5,
				Default: &blueprint.DefaultAction{
					Action: blueprint.DefaultActionAccept,
				},
			},
			// A later declaration of state 2 never shadows the first one.
			{
				State: 2,
				Default: &blueprint.DefaultAction{
					Action: blueprint.DefaultActionAccept,
				},
			},
		},
	}
}

func sym(v string) event.Symbol {
	return event.Symbol{Value: v, Display: v}
}

func symp(v string) *event.Symbol {
	s := sym(v)
	return &s
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		caption   string
		states    []int
		symbols   []event.Symbol
		lookahead *event.Symbol
		reducing  bool
		want      *Target
	}{
		{
			caption: "an empty stack highlights nothing",
			want:    nil,
		},
		{
			caption: "an unknown state highlights nothing",
			states:  []int{42},
			want:    nil,
		},
		{
			caption:   "the first shift on the lookahead wins",
			states:    []int{0},
			lookahead: symp("INT"),
			want:      &Target{State: 0, Kind: TargetShift, Index: 0, Symbol: "INT", To: 1},
		},
		{
			caption:  "a reduction without a matching goto falls back to the default action",
			states:   []int{0, 1},
			symbols:  []event.Symbol{sym("INT")},
			reducing: true,
			want:     &Target{State: 1, Kind: TargetDefault, Action: blueprint.DefaultActionReduce, Rule: rulep(21)},
		},
		{
			caption:  "a reduction back in state 0 takes the goto",
			states:   []int{0},
			symbols:  []event.Symbol{sym("INT"), sym("type_spec")},
			reducing: true,
			want:     &Target{State: 0, Kind: TargetGoTo, Index: 1, Symbol: "type_spec", To: 3},
		},
		{
			caption:  "a reduction without a matching goto or default highlights nothing",
			states:   []int{0},
			symbols:  []event.Symbol{sym("stmt")},
			reducing: true,
			want:     nil,
		},
		{
			caption: "no lookahead highlights the default action",
			states:  []int{5},
			want:    &Target{State: 5, Kind: TargetDefault, Action: blueprint.DefaultActionAccept},
		},
		{
			caption:   "an unmatched lookahead falls back to the default action",
			states:    []int{1},
			lookahead: symp("SEMI"),
			want:      &Target{State: 1, Kind: TargetDefault, Action: blueprint.DefaultActionReduce, Rule: rulep(21)},
		},
		{
			caption:   "an unmatched lookahead without a default highlights nothing",
			states:    []int{2},
			lookahead: symp("SEMI"),
			want:      nil,
		},
		{
			caption:   "the first declaration of a state wins",
			states:    []int{2},
			lookahead: symp("ID"),
			want:      &Target{State: 2, Kind: TargetShift, Index: 0, Symbol: "ID", To: 4},
		},
	}
	table := newTable()
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got := Highlight(table, tt.states, tt.symbols, tt.lookahead, tt.reducing)
			testTarget(t, got, tt.want)
		})
	}
}

func testTarget(t *testing.T, got, want *Target) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("unexpected target: %+v", got)
		}
		return
	}
	if got == nil {
		t.Fatalf("a target must be highlighted: want: %+v", want)
	}
	if got.State != want.State || got.Kind != want.Kind || got.Index != want.Index || got.Symbol != want.Symbol || got.To != want.To || got.Action != want.Action {
		t.Fatalf("unexpected target: want: %+v, got: %+v", want, got)
	}
	if (got.Rule == nil) != (want.Rule == nil) || (got.Rule != nil && *got.Rule != *want.Rule) {
		t.Fatalf("unexpected rule: want: %v, got: %v", want.Rule, got.Rule)
	}
}

func TestDerive(t *testing.T) {
	two := 2
	evs := []event.Event{
		event.StateEntered{State: 0},
		event.StackSnapshot{States: []int{0}, Lookahead: symp("INT")},
		event.StateEntered{State: 1},
		event.StackSnapshot{States: []int{0, 1}, Symbols: []event.Symbol{sym("INT")}, ReduceCount: &two},
		event.ReduceBegin{RuleNo: 21, Count: rulep(1)},
		event.TokenRead{Token: "ID"},
		event.ReduceComplete{RuleNo: 21},
	}

	s := Derive(evs, -1)
	if _, ok := s.ActiveState(); ok || s.ReduceInProgress || s.Lookahead != nil {
		t.Fatalf("a negative cursor must produce an empty snapshot: %+v", s)
	}

	s = Derive(evs, 1)
	if st, ok := s.ActiveState(); !ok || st != 0 {
		t.Fatalf("unexpected active state: %v", st)
	}
	if s.Lookahead == nil || s.Lookahead.Value != "INT" {
		t.Fatalf("unexpected lookahead: %+v", s.Lookahead)
	}

	s = Derive(evs, 3)
	if s.Lookahead != nil {
		t.Fatalf("a later snapshot without a lookahead must clear it")
	}
	if s.ReduceArity == nil || *s.ReduceArity != 2 {
		t.Fatalf("the arity must come from the snapshot: %v", s.ReduceArity)
	}
	if s.EnteredState == nil || *s.EnteredState != 1 {
		t.Fatalf("unexpected entered state: %v", s.EnteredState)
	}

	s = Derive(evs, 5)
	if !s.ReduceInProgress || s.ReduceRule == nil || *s.ReduceRule != 21 {
		t.Fatalf("a reduction must be in progress: %+v", s)
	}
	if s.ReduceArity == nil || *s.ReduceArity != 1 {
		t.Fatalf("the arity of a reduce-begin must win: %v", s.ReduceArity)
	}
	if from, to, ok := s.ReduceSpan(); !ok || from != 1 || to != 2 {
		t.Fatalf("unexpected span: [%v, %v) (%v)", from, to, ok)
	}
	if got := s.Highlight(newTable()); got == nil || got.Kind != TargetDefault {
		t.Fatalf("unexpected highlight: %+v", got)
	}

	s = Derive(evs, 100)
	if s.ReduceInProgress || s.ReduceRule != nil {
		t.Fatalf("a reduce-complete must end the reduction")
	}
	if _, _, ok := s.ReduceSpan(); ok {
		t.Fatalf("no span exists outside of a reduction")
	}
}

func TestDerive_SnapshotsAreCopied(t *testing.T) {
	states := []int{0, 1}
	evs := []event.Event{
		event.StackSnapshot{States: states},
	}
	s := Derive(evs, 0)
	s.StateStack[0] = 99
	if states[0] != 0 {
		t.Fatalf("a snapshot must not share memory with the log")
	}
}

func TestReduceSpan_ClampsArity(t *testing.T) {
	s := &Snapshot{
		StateStack:       []int{0, 1},
		ReduceInProgress: true,
		ReduceArity:      rulep(5),
	}
	if from, to, ok := s.ReduceSpan(); !ok || from != 0 || to != 2 {
		t.Fatalf("unexpected span: [%v, %v) (%v)", from, to, ok)
	}
}

func TestDerive_EmptyStacksAreArrays(t *testing.T) {
	for _, cursor := range []int{-1, 0} {
		s := Derive([]event.Event{event.StateEntered{State: 0}}, cursor)
		b, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{`"state_stack":[]`, `"symbol_stack":[]`} {
			if !strings.Contains(string(b), want) {
				t.Fatalf("cursor %v: %v must be encoded: %v", cursor, want, string(b))
			}
		}
	}
}
