// Package rule derives the active grammar rule and semantic step, and implements the cursor
// policy that hides semantic steps when semantic stepping is off.
package rule

import (
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

// Active is the most recent reduction. SubRuleNo is 0 when the step named no alternative.
type Active struct {
	RuleNo    int    `json:"rule_no" msgpack:"rule_no"`
	SubRuleNo int    `json:"sub_rule_no,omitempty" msgpack:"sub_rule_no,omitempty"`
	Text      string `json:"text" msgpack:"text"`
	Index     int    `json:"index" msgpack:"index"`
}

// StepKey identifies a semantic step of the grammar.
type StepKey struct {
	RuleNo int    `json:"rule_no" msgpack:"rule_no"`
	StepNo int    `json:"step_no" msgpack:"step_no"`
	Instr  string `json:"instr" msgpack:"instr"`
	Index  int    `json:"index" msgpack:"index"`
}

// ActiveRule returns the most recent rule reduction at or before the cursor.
func ActiveRule(events []event.Event, cursor int) *Active {
	prefix := event.Prefix(events, cursor)
	for i := len(prefix) - 1; i >= 0; i-- {
		if e, ok := prefix[i].(event.RuleReduced); ok {
			return &Active{
				RuleNo:    e.RuleNo,
				SubRuleNo: e.SubRuleNo,
				Text:      e.Rule,
				Index:     i,
			}
		}
	}
	return nil
}

// SemanticHighlight returns the most recent semantic step at or before the cursor. The result is
// nil when the grammar does not declare that step for the rule.
func SemanticHighlight(events []event.Event, cursor int, g *blueprint.Grammar) *StepKey {
	prefix := event.Prefix(events, cursor)
	for i := len(prefix) - 1; i >= 0; i-- {
		e, ok := prefix[i].(event.SemanticStep)
		if !ok {
			continue
		}
		s, ok := g.SemanticStep(e.RuleNo, e.StepNo)
		if !ok {
			return nil
		}
		instr := s.Instr
		if instr == "" {
			instr = e.Instr
		}
		return &StepKey{
			RuleNo: e.RuleNo,
			StepNo: e.StepNo,
			Instr:  instr,
			Index:  i,
		}
	}
	return nil
}

func isSemantic(ev event.Event) bool {
	return ev != nil && ev.Kind() == event.KindSemanticStep
}
