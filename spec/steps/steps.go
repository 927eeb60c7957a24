// Package steps defines the JSON document an instrumented compiler writes while it lexes and
// parses a compilation unit. The replay engine consumes only the first phase of the document.
package steps

import "encoding/json"

type StepType string

const (
	StepTypeLexReadToken       = StepType("LEX_READ_TOKEN")
	StepTypeParseReduceRule    = StepType("PARSE_REDUCE_RULE")
	StepTypeParseSemanticStep  = StepType("PARSE_SEMANTIC_STEP")
	StepTypeParseCreateScope   = StepType("PARSE_CREATE_SCOPE")
	StepTypeParseEnterScope    = StepType("PARSE_ENTER_SCOPE")
	StepTypeParseExitScope     = StepType("PARSE_EXIT_SCOPE")
	StepTypeParseAddSym        = StepType("PARSE_ADD_SYM")
	StepTypeParseAssgnSymType  = StepType("PARSE_ASSGN_SYM_TYPE")
	StepTypeParseCreateASTNode = StepType("PARSE_CREATE_AST_NODE")
	StepTypeParseEnteringState = StepType("PARSE_ENTERING_STATE")
	StepTypeParseStackSnapshot = StepType("PARSE_STACK_SNAPSHOT")
	StepTypeParseReduceBegin   = StepType("PARSE_REDUCE_BEGIN")
	StepTypeParseReduceDone    = StepType("PARSE_REDUCE_COMPLETE")
)

func (t StepType) String() string {
	return string(t)
}

type Document struct {
	Phases []*Phase `json:"phases"`
}

type Phase struct {
	Phase string  `json:"phase"`
	Steps []*Step `json:"steps"`
}

// Step is a single instrumentation record. Data is kept raw because its shape depends on Type.
type Step struct {
	Type StepType        `json:"type"`
	Data json.RawMessage `json:"data"`
}

type LexReadTokenData struct {
	Token    string `json:"token"`
	Value    string `json:"value"`
	Location string `json:"location"`
}

type ParseReduceRuleData struct {
	RuleNo    Numeric `json:"ruleNo"`
	RuleID    Numeric `json:"ruleId"`
	SubRuleID Numeric `json:"subRuleId"`
	Rule      string  `json:"rule"`
}

type ParseSemanticStepData struct {
	RuleNo Numeric `json:"ruleNo"`
	StepNo Numeric `json:"stepNo"`
	Instr  string  `json:"instr"`
}

type ParseCreateScopeData struct {
	TableID  Numeric `json:"table_id"`
	Name     string  `json:"name"`
	ParentID Numeric `json:"parent_id"`
}

type ParseEnterExitScopeData struct {
	TableID Numeric `json:"table_id"`
	Name    string  `json:"name"`
}

type ParseAddSymData struct {
	Name        string  `json:"name"`
	SymType     string  `json:"sym_type"`
	ScopeID     Numeric `json:"scope_id"`
	IsFunction  Flag    `json:"is_function"`
	LineNo      Numeric `json:"line_no"`
	CharNo      Numeric `json:"char_no"`
	IsDuplicate Flag    `json:"is_duplicate"`
}

type ParseAssgnSymTypeData struct {
	Name    string  `json:"name"`
	SymType string  `json:"sym_type"`
	ScopeID Numeric `json:"scope_id"`
}

type ParseCreateASTNodeData struct {
	NodeID Numeric `json:"node_id"`
}

type ParseEnteringStateData struct {
	State Numeric `json:"state"`
}

type SymbolData struct {
	DisplayValue string `json:"displayValue"`
	Value        string `json:"value"`
}

type ParseStackSnapshotData struct {
	States      []Numeric     `json:"states"`
	Symbols     []*SymbolData `json:"symbols"`
	Lookahead   *SymbolData   `json:"lookahead"`
	ReduceCount Numeric       `json:"reduceCount"`
}

type ParseReduceBeginData struct {
	RuleNo Numeric `json:"ruleNo"`
	Count  Numeric `json:"count"`
}

type ParseReduceCompleteData struct {
	RuleNo Numeric `json:"ruleNo"`
}
