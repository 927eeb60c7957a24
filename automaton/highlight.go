package automaton

import (
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

type TargetKind string

const (
	TargetShift   = TargetKind("shift")
	TargetGoTo    = TargetKind("goto")
	TargetDefault = TargetKind("default")
)

// Target is the highlighted entry of a state. Index is the position of the entry in its table;
// it is 0 for a default action.
type Target struct {
	State  int                         `json:"state" msgpack:"state"`
	Kind   TargetKind                  `json:"kind" msgpack:"kind"`
	Index  int                         `json:"index" msgpack:"index"`
	Symbol string                      `json:"symbol,omitempty" msgpack:"symbol,omitempty"`
	To     int                         `json:"to,omitempty" msgpack:"to,omitempty"`
	Action blueprint.DefaultActionType `json:"action,omitempty" msgpack:"action,omitempty"`
	Rule   *int                        `json:"rule,omitempty" msgpack:"rule,omitempty"`
}

// Highlight picks the entry of the active state that the parser is about to take. While a
// reduction is in progress this is the goto on the symbol at the top of the stack. Otherwise it
// is the shift on the lookahead. When neither applies the default action is highlighted. The
// first matching entry wins. The result is nil when nothing matches.
func Highlight(table *blueprint.StateTable, stateStack []int, symbolStack []event.Symbol, lookahead *event.Symbol, reduceInProgress bool) *Target {
	if len(stateStack) == 0 {
		return nil
	}
	st, ok := table.State(stateStack[len(stateStack)-1])
	if !ok {
		return nil
	}

	if reduceInProgress {
		if len(symbolStack) > 0 {
			top := symbolStack[len(symbolStack)-1].Value
			for i, g := range st.GoTos {
				if g == nil || g.Symbol != top {
					continue
				}
				return &Target{
					State:  st.State,
					Kind:   TargetGoTo,
					Index:  i,
					Symbol: g.Symbol,
					To:     g.To,
				}
			}
		}
		return defaultTarget(st)
	}

	if lookahead != nil {
		for i, sh := range st.Shifts {
			if sh == nil || sh.Symbol != lookahead.Value {
				continue
			}
			return &Target{
				State:  st.State,
				Kind:   TargetShift,
				Index:  i,
				Symbol: sh.Symbol,
				To:     sh.To,
			}
		}
	}

	return defaultTarget(st)
}

func defaultTarget(st *blueprint.State) *Target {
	if st.Default == nil {
		return nil
	}
	t := &Target{
		State:  st.State,
		Kind:   TargetDefault,
		Action: st.Default.Action,
	}
	if st.Default.Rule != nil {
		t.Rule = intp(*st.Default.Rule)
	}
	return t
}
