// Package automaton tracks the LR parser stack through the log and decides which entry of the
// active state a viewer highlights.
package automaton

import (
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

// Snapshot is the parser stack at a cursor. The stacks come from the most recent stack snapshot
// at or before the cursor.
type Snapshot struct {
	StateStack       []int          `json:"state_stack" msgpack:"state_stack"`
	SymbolStack      []event.Symbol `json:"symbol_stack" msgpack:"symbol_stack"`
	Lookahead        *event.Symbol  `json:"lookahead" msgpack:"lookahead"`
	ReduceArity      *int           `json:"reduce_arity" msgpack:"reduce_arity"`
	ReduceInProgress bool           `json:"reduce_in_progress" msgpack:"reduce_in_progress"`
	ReduceRule       *int           `json:"reduce_rule" msgpack:"reduce_rule"`
	EnteredState     *int           `json:"entered_state" msgpack:"entered_state"`
}

// ActiveState returns the top of the state stack.
func (s *Snapshot) ActiveState() (int, bool) {
	if s == nil || len(s.StateStack) == 0 {
		return 0, false
	}
	return s.StateStack[len(s.StateStack)-1], true
}

// ReduceSpan returns the half-open range of stack cells a reduction in progress pops. It
// reports false when no reduction is in progress or its arity is unknown.
func (s *Snapshot) ReduceSpan() (from int, to int, ok bool) {
	if s == nil || !s.ReduceInProgress || s.ReduceArity == nil {
		return 0, 0, false
	}
	n := len(s.StateStack)
	from = n - *s.ReduceArity
	if from < 0 {
		from = 0
	}
	if from > n {
		from = n
	}
	return from, n, true
}

func (s *Snapshot) Highlight(table *blueprint.StateTable) *Target {
	if s == nil {
		return nil
	}
	return Highlight(table, s.StateStack, s.SymbolStack, s.Lookahead, s.ReduceInProgress)
}

func intp(n int) *int {
	return &n
}

// Derive folds events[0..cursor] into a snapshot of the parser stack.
func Derive(events []event.Event, cursor int) *Snapshot {
	s := &Snapshot{
		StateStack:  []int{},
		SymbolStack: []event.Symbol{},
	}
	var beginArity *int
	var snapArity *int
	for _, ev := range event.Prefix(events, cursor) {
		switch e := ev.(type) {
		case event.StackSnapshot:
			s.StateStack = append([]int{}, e.States...)
			s.SymbolStack = append([]event.Symbol{}, e.Symbols...)
			s.Lookahead = nil
			if e.Lookahead != nil {
				la := *e.Lookahead
				s.Lookahead = &la
			}
			snapArity = nil
			if e.ReduceCount != nil {
				snapArity = intp(*e.ReduceCount)
			}
		case event.StateEntered:
			s.EnteredState = intp(e.State)
		case event.ReduceBegin:
			s.ReduceInProgress = true
			s.ReduceRule = intp(e.RuleNo)
			beginArity = nil
			if e.Count != nil {
				beginArity = intp(*e.Count)
			}
		case event.ReduceComplete:
			s.ReduceInProgress = false
			s.ReduceRule = nil
			beginArity = nil
		default:
		}
	}
	switch {
	case beginArity != nil:
		s.ReduceArity = beginArity
	case snapArity != nil:
		s.ReduceArity = snapArity
	}
	return s
}
