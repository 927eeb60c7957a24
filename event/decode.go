package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	verr "github.com/nihei9/vartrace/error"
	"github.com/nihei9/vartrace/spec/steps"
)

var ErrNoPhases = errors.New("the log contains no phase")

// Read decodes a step document and returns the log of its first phase.
func Read(r io.Reader) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc := &steps.Document{}
	err = json.Unmarshal(data, doc)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

// ReadFile reads a log file. Every error is a *verr.LoadError carrying the path.
func ReadFile(path string) (*Log, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &verr.LoadError{
			Cause:    err,
			FilePath: path,
		}
	}
	defer f.Close()
	l, err := Read(f)
	if err != nil {
		var lerr *verr.LoadError
		if errors.As(err, &lerr) {
			lerr.FilePath = path
			return nil, lerr
		}
		return nil, &verr.LoadError{
			Cause:    err,
			FilePath: path,
		}
	}
	return l, nil
}

// Decode builds a log from the first phase of a document. Only a missing phase is an error;
// individual steps never fail.
func Decode(doc *steps.Document) (*Log, error) {
	if doc == nil || len(doc.Phases) == 0 || doc.Phases[0] == nil {
		return nil, &verr.LoadError{
			Cause: ErrNoPhases,
		}
	}
	phase := doc.Phases[0]
	evs := make([]Event, 0, len(phase.Steps))
	for _, s := range phase.Steps {
		evs = append(evs, DecodeStep(s))
	}
	return &Log{
		phase:  phase.Phase,
		events: evs,
	}, nil
}

// DecodeStep converts one step. It never fails: unreadable steps become Opaque.
func DecodeStep(s *steps.Step) Event {
	if s == nil {
		return Opaque{}
	}
	ev, err := decodeStep(s)
	if err != nil {
		return Opaque{
			Type: s.Type,
			Raw:  s.Data,
			Err:  err,
		}
	}
	return ev
}

func decodeStep(s *steps.Step) (Event, error) {
	switch s.Type {
	case steps.StepTypeLexReadToken:
		var d steps.LexReadTokenData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		return TokenRead{
			Token:    d.Token,
			Value:    d.Value,
			Location: d.Location,
		}, nil
	case steps.StepTypeParseReduceRule:
		var d steps.ParseReduceRuleData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		num := d.RuleNo
		if !num.IsSet() {
			num = d.RuleID
		}
		ruleNo, err := required("ruleNo", num)
		if err != nil {
			return nil, err
		}
		return RuleReduced{
			RuleNo:    ruleNo,
			SubRuleNo: d.SubRuleID.IntOr(0),
			Rule:      d.Rule,
		}, nil
	case steps.StepTypeParseSemanticStep:
		var d steps.ParseSemanticStepData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		ruleNo, err := required("ruleNo", d.RuleNo)
		if err != nil {
			return nil, err
		}
		stepNo, err := required("stepNo", d.StepNo)
		if err != nil {
			return nil, err
		}
		return SemanticStep{
			RuleNo: ruleNo,
			StepNo: stepNo,
			Instr:  d.Instr,
		}, nil
	case steps.StepTypeParseCreateScope:
		var d steps.ParseCreateScopeData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		id, err := required("table_id", d.TableID)
		if err != nil {
			return nil, err
		}
		ev := ScopeCreated{
			TableID: id,
			Name:    d.Name,
		}
		if p, err := d.ParentID.Int(); err == nil {
			ev.ParentID = &p
		}
		return ev, nil
	case steps.StepTypeParseEnterScope, steps.StepTypeParseExitScope:
		var d steps.ParseEnterExitScopeData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		id, err := required("table_id", d.TableID)
		if err != nil {
			return nil, err
		}
		if s.Type == steps.StepTypeParseEnterScope {
			return ScopeEntered{
				TableID: id,
				Name:    d.Name,
			}, nil
		}
		return ScopeExited{
			TableID: id,
			Name:    d.Name,
		}, nil
	case steps.StepTypeParseAddSym:
		var d steps.ParseAddSymData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		id, err := required("scope_id", d.ScopeID)
		if err != nil {
			return nil, err
		}
		return SymbolAdded{
			ScopeID:     id,
			Name:        d.Name,
			Type:        d.SymType,
			Line:        d.LineNo.IntOr(0),
			Col:         d.CharNo.IntOr(0),
			IsFunction:  d.IsFunction.Bool(),
			IsDuplicate: d.IsDuplicate.Bool(),
		}, nil
	case steps.StepTypeParseAssgnSymType:
		var d steps.ParseAssgnSymTypeData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		id, err := required("scope_id", d.ScopeID)
		if err != nil {
			return nil, err
		}
		return SymbolTypeAssigned{
			ScopeID: id,
			Name:    d.Name,
			Type:    d.SymType,
		}, nil
	case steps.StepTypeParseCreateASTNode:
		var d steps.ParseCreateASTNodeData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		id, err := required("node_id", d.NodeID)
		if err != nil {
			return nil, err
		}
		return ASTNodeCreated{
			NodeID: id,
		}, nil
	case steps.StepTypeParseEnteringState:
		var d steps.ParseEnteringStateData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		state, err := required("state", d.State)
		if err != nil {
			return nil, err
		}
		return StateEntered{
			State: state,
		}, nil
	case steps.StepTypeParseStackSnapshot:
		var d steps.ParseStackSnapshotData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		return decodeStackSnapshot(&d)
	case steps.StepTypeParseReduceBegin:
		var d steps.ParseReduceBeginData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		ev := ReduceBegin{
			RuleNo: d.RuleNo.IntOr(0),
		}
		if c, err := d.Count.Int(); err == nil {
			ev.Count = &c
		}
		return ev, nil
	case steps.StepTypeParseReduceDone:
		var d steps.ParseReduceCompleteData
		if err := unmarshalData(s.Data, &d); err != nil {
			return nil, err
		}
		return ReduceComplete{
			RuleNo: d.RuleNo.IntOr(0),
		}, nil
	}
	return Opaque{
		Type: s.Type,
		Raw:  s.Data,
	}, nil
}

func decodeStackSnapshot(d *steps.ParseStackSnapshotData) (Event, error) {
	ev := StackSnapshot{
		States:  make([]int, 0, len(d.States)),
		Symbols: make([]Symbol, 0, len(d.Symbols)),
	}
	for i, n := range d.States {
		state, err := n.Int()
		if err != nil {
			return nil, fmt.Errorf("states[%v]: %w", i, err)
		}
		ev.States = append(ev.States, state)
	}
	for _, sym := range d.Symbols {
		if sym == nil {
			continue
		}
		ev.Symbols = append(ev.Symbols, symbolOf(sym))
	}
	if d.Lookahead != nil && (d.Lookahead.Value != "" || d.Lookahead.DisplayValue != "") {
		la := symbolOf(d.Lookahead)
		ev.Lookahead = &la
	}
	if c, err := d.ReduceCount.Int(); err == nil {
		ev.ReduceCount = &c
	}
	return ev, nil
}

func symbolOf(d *steps.SymbolData) Symbol {
	disp := d.DisplayValue
	if disp == "" {
		disp = d.Value
	}
	return Symbol{
		Value:   d.Value,
		Display: disp,
	}
}

func unmarshalData(data json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func required(name string, n steps.Numeric) (int, error) {
	v, err := n.Int()
	if err != nil {
		return 0, fmt.Errorf("%v: %w", name, err)
	}
	return v, nil
}
