package blueprint

import "sort"

type SemanticStep struct {
	StepNo int    `json:"stepNo" yaml:"stepNo"`
	Instr  string `json:"instr" yaml:"instr"`
}

type Rule struct {
	RuleNo        int             `json:"ruleNo" yaml:"ruleNo"`
	SubRuleNo     int             `json:"subRuleNo,omitempty" yaml:"subRuleNo,omitempty"`
	Text          string          `json:"text" yaml:"text"`
	SemanticSteps []*SemanticStep `json:"semanticSteps,omitempty" yaml:"semanticSteps,omitempty"`
}

// Grammar is the static table of productions. Several rules may share a rule number; they
// are the alternatives of one production and are told apart by their sub-rule numbers.
type Grammar struct {
	Rules []*Rule `json:"rules" yaml:"rules"`
}

// Rule returns the first rule with the number.
func (g *Grammar) Rule(ruleNo int) (*Rule, bool) {
	if g == nil {
		return nil, false
	}
	for _, r := range g.Rules {
		if r == nil {
			continue
		}
		if r.RuleNo == ruleNo {
			return r, true
		}
	}
	return nil, false
}

// SemanticStep looks up a step of any alternative of the rule.
func (g *Grammar) SemanticStep(ruleNo, stepNo int) (*SemanticStep, bool) {
	if g == nil {
		return nil, false
	}
	for _, r := range g.Rules {
		if r == nil || r.RuleNo != ruleNo {
			continue
		}
		for _, s := range r.SemanticSteps {
			if s != nil && s.StepNo == stepNo {
				return s, true
			}
		}
	}
	return nil, false
}

type RuleGroup struct {
	RuleNo int
	Rules  []*Rule
}

// Groups groups the rules by rule number. Groups are ordered by rule number and the rules of
// a group by sub-rule number; rules with equal sub-rule numbers keep their table order.
func (g *Grammar) Groups() []*RuleGroup {
	if g == nil {
		return nil
	}
	index := map[int]*RuleGroup{}
	var groups []*RuleGroup
	for _, r := range g.Rules {
		if r == nil {
			continue
		}
		grp, ok := index[r.RuleNo]
		if !ok {
			grp = &RuleGroup{
				RuleNo: r.RuleNo,
			}
			index[r.RuleNo] = grp
			groups = append(groups, grp)
		}
		grp.Rules = append(grp.Rules, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].RuleNo < groups[j].RuleNo
	})
	for _, grp := range groups {
		sort.SliceStable(grp.Rules, func(i, j int) bool {
			return grp.Rules[i].SubRuleNo < grp.Rules[j].SubRuleNo
		})
	}
	return groups
}
