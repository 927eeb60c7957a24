package blueprint

type DefaultActionType string

const (
	DefaultActionReduce = DefaultActionType("reduce")
	DefaultActionAccept = DefaultActionType("accept")
)

type Item struct {
	Rule int    `json:"rule" yaml:"rule"`
	Item string `json:"item" yaml:"item"`
}

type Shift struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	To     int    `json:"to" yaml:"to"`
}

type Reduce struct {
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Rule   int    `json:"rule" yaml:"rule"`
	LHS    string `json:"lhs,omitempty" yaml:"lhs,omitempty"`
}

type GoTo struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	To     int    `json:"to" yaml:"to"`
}

type DefaultAction struct {
	Action DefaultActionType `json:"action" yaml:"action"`
	Rule   *int              `json:"rule,omitempty" yaml:"rule,omitempty"`
	LHS    string            `json:"lhs,omitempty" yaml:"lhs,omitempty"`
}

type State struct {
	State   int            `json:"state" yaml:"state"`
	Items   []*Item        `json:"items" yaml:"items"`
	Shifts  []*Shift       `json:"shifts" yaml:"shifts"`
	Reduces []*Reduce      `json:"reduces" yaml:"reduces"`
	GoTos   []*GoTo        `json:"gotos" yaml:"gotos"`
	Default *DefaultAction `json:"default" yaml:"default"`
}

// StateTable is the LR automaton a parser generator reported for the grammar.
type StateTable struct {
	States []*State `json:"states" yaml:"states"`

	index map[int]*State
}

// State returns the state with the number. When the table declares the same number twice,
// the first declaration wins.
func (t *StateTable) State(num int) (*State, bool) {
	if t == nil {
		return nil, false
	}
	if t.index == nil {
		t.buildIndex()
	}
	s, ok := t.index[num]
	return s, ok
}

func (t *StateTable) buildIndex() {
	t.index = make(map[int]*State, len(t.States))
	for _, s := range t.States {
		if s == nil {
			continue
		}
		if _, ok := t.index[s.State]; ok {
			continue
		}
		t.index[s.State] = s
	}
}
