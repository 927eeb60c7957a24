package replay

import (
	"github.com/nihei9/vartrace/ast"
	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/rule"
	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/nihei9/vartrace/symtab"
)

// Step describes the event under the cursor.
type Step struct {
	Index   int    `json:"index" msgpack:"index"`
	Kind    string `json:"kind" msgpack:"kind"`
	Summary string `json:"summary" msgpack:"summary"`
}

// Token is the most recent token read at or before the cursor. PrevLocation is the location of
// the token read before it; a viewer selects the source between the two.
type Token struct {
	Index        int    `json:"index" msgpack:"index"`
	Token        string `json:"token" msgpack:"token"`
	Value        string `json:"value,omitempty" msgpack:"value,omitempty"`
	Location     string `json:"location" msgpack:"location"`
	Line         int    `json:"line" msgpack:"line"`
	Col          int    `json:"col" msgpack:"col"`
	PrevLocation string `json:"prev_location,omitempty" msgpack:"prev_location,omitempty"`
}

type AST struct {
	Nodes  []*blueprint.ASTNode `json:"nodes" msgpack:"nodes"`
	Edges  []ast.Edge           `json:"edges" msgpack:"edges"`
	Intent *ast.Intent          `json:"intent" msgpack:"intent"`
}

// Snapshot is every read model at one cursor position. Snapshots share the blueprints of the
// session and must not be modified.
type Snapshot struct {
	Cursor       int                 `json:"cursor" msgpack:"cursor"`
	Len          int                 `json:"len" msgpack:"len"`
	Semantic     bool                `json:"semantic" msgpack:"semantic"`
	Step         *Step               `json:"step" msgpack:"step"`
	Token        *Token              `json:"token" msgpack:"token"`
	Scopes       *symtab.State       `json:"scopes" msgpack:"scopes"`
	AST          *AST                `json:"ast" msgpack:"ast"`
	Automaton    *automaton.Snapshot `json:"automaton" msgpack:"automaton"`
	Highlight    *automaton.Target   `json:"highlight" msgpack:"highlight"`
	Rule         *rule.Active        `json:"rule" msgpack:"rule"`
	SemanticStep *rule.StepKey       `json:"semantic_step" msgpack:"semantic_step"`
}

func stepAt(events []event.Event, cursor int) *Step {
	if cursor < 0 || cursor >= len(events) {
		return nil
	}
	ev := events[cursor]
	return &Step{
		Index:   cursor,
		Kind:    ev.Kind().String(),
		Summary: event.Summary(ev),
	}
}

func tokenAt(events []event.Event, cursor int) *Token {
	prefix := event.Prefix(events, cursor)
	var tok *Token
	for i := len(prefix) - 1; i >= 0; i-- {
		e, ok := prefix[i].(event.TokenRead)
		if !ok {
			continue
		}
		if tok != nil {
			tok.PrevLocation = e.Location
			break
		}
		line, col, _ := e.Position()
		tok = &Token{
			Index:    i,
			Token:    e.Token,
			Value:    e.Value,
			Location: e.Location,
			Line:     line,
			Col:      col,
		}
	}
	return tok
}
