// Package event turns a step document into a typed, immutable log. Every step keeps its log
// position: steps of an unknown type, or whose payload cannot be read, become Opaque events
// that the reconstructors skip.
package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nihei9/vartrace/spec/steps"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindTokenRead
	KindRuleReduced
	KindSemanticStep
	KindScopeCreated
	KindScopeEntered
	KindScopeExited
	KindSymbolAdded
	KindSymbolTypeAssigned
	KindASTNodeCreated
	KindStateEntered
	KindStackSnapshot
	KindReduceBegin
	KindReduceComplete
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindTokenRead:          "token-read",
	KindRuleReduced:        "rule-reduced",
	KindSemanticStep:       "semantic-substep",
	KindScopeCreated:       "scope-created",
	KindScopeEntered:       "scope-entered",
	KindScopeExited:        "scope-exited",
	KindSymbolAdded:        "symbol-added",
	KindSymbolTypeAssigned: "symbol-type-assigned",
	KindASTNodeCreated:     "ast-node-created",
	KindStateEntered:       "automaton-state-entered",
	KindStackSnapshot:      "automaton-stack-snapshot",
	KindReduceBegin:        "reduce-begin",
	KindReduceComplete:     "reduce-complete",
}

var stepTypes = map[steps.StepType]Kind{
	steps.StepTypeLexReadToken:       KindTokenRead,
	steps.StepTypeParseReduceRule:    KindRuleReduced,
	steps.StepTypeParseSemanticStep:  KindSemanticStep,
	steps.StepTypeParseCreateScope:   KindScopeCreated,
	steps.StepTypeParseEnterScope:    KindScopeEntered,
	steps.StepTypeParseExitScope:     KindScopeExited,
	steps.StepTypeParseAddSym:        KindSymbolAdded,
	steps.StepTypeParseAssgnSymType:  KindSymbolTypeAssigned,
	steps.StepTypeParseCreateASTNode: KindASTNodeCreated,
	steps.StepTypeParseEnteringState: KindStateEntered,
	steps.StepTypeParseStackSnapshot: KindStackSnapshot,
	steps.StepTypeParseReduceBegin:   KindReduceBegin,
	steps.StepTypeParseReduceDone:    KindReduceComplete,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// KindOf returns the kind a step type decodes to. Unknown step types map to KindUnknown.
func KindOf(t steps.StepType) Kind {
	if k, ok := stepTypes[t]; ok {
		return k
	}
	return KindUnknown
}

// Event is a decoded step. The concrete types are the value types declared in this file.
type Event interface {
	Kind() Kind
}

type TokenRead struct {
	Token    string
	Value    string
	Location string
}

func (TokenRead) Kind() Kind { return KindTokenRead }

// Position parses the `line:col` location of the token.
func (e TokenRead) Position() (line int, col int, ok bool) {
	l, c, found := strings.Cut(e.Location, ":")
	if !found {
		return 0, 0, false
	}
	line, err := strconv.Atoi(strings.TrimSpace(l))
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

type RuleReduced struct {
	RuleNo    int
	SubRuleNo int
	Rule      string
}

func (RuleReduced) Kind() Kind { return KindRuleReduced }

type SemanticStep struct {
	RuleNo int
	StepNo int
	Instr  string
}

func (SemanticStep) Kind() Kind { return KindSemanticStep }

// ScopeCreated declares a scope. ParentID is nil when the step names no readable parent.
type ScopeCreated struct {
	TableID  int
	Name     string
	ParentID *int
}

func (ScopeCreated) Kind() Kind { return KindScopeCreated }

type ScopeEntered struct {
	TableID int
	Name    string
}

func (ScopeEntered) Kind() Kind { return KindScopeEntered }

type ScopeExited struct {
	TableID int
	Name    string
}

func (ScopeExited) Kind() Kind { return KindScopeExited }

type SymbolAdded struct {
	ScopeID     int
	Name        string
	Type        string
	Line        int
	Col         int
	IsFunction  bool
	IsDuplicate bool
}

func (SymbolAdded) Kind() Kind { return KindSymbolAdded }

type SymbolTypeAssigned struct {
	ScopeID int
	Name    string
	Type    string
}

func (SymbolTypeAssigned) Kind() Kind { return KindSymbolTypeAssigned }

type ASTNodeCreated struct {
	NodeID int
}

func (ASTNodeCreated) Kind() Kind { return KindASTNodeCreated }

type StateEntered struct {
	State int
}

func (StateEntered) Kind() Kind { return KindStateEntered }

// Symbol is a grammar symbol on the parser stack. Value is the symbol name the state table
// uses; Display is what a viewer shows for it.
type Symbol struct {
	Value   string `json:"value" msgpack:"value"`
	Display string `json:"display" msgpack:"display"`
}

type StackSnapshot struct {
	States      []int
	Symbols     []Symbol
	Lookahead   *Symbol
	ReduceCount *int
}

func (StackSnapshot) Kind() Kind { return KindStackSnapshot }

type ReduceBegin struct {
	RuleNo int
	Count  *int
}

func (ReduceBegin) Kind() Kind { return KindReduceBegin }

type ReduceComplete struct {
	RuleNo int
}

func (ReduceComplete) Kind() Kind { return KindReduceComplete }

// Opaque is a step no reconstructor understands: either its type is unknown, or its payload
// could not be read, in which case Err holds the reason.
type Opaque struct {
	Type steps.StepType
	Raw  json.RawMessage
	Err  error
}

// Kind reports the kind of the step type, so an unreadable semantic sub-step still counts as
// one for the skip policy.
func (e Opaque) Kind() Kind {
	return KindOf(e.Type)
}

func (e Opaque) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (unreadable: %v)", e.Type, e.Err)
	}
	return string(e.Type)
}
