package event

import (
	"fmt"
	"strings"
)

// Summary returns a one-line description of an event.
func Summary(ev Event) string {
	switch e := ev.(type) {
	case TokenRead:
		if e.Value != "" {
			return fmt.Sprintf("LEX: %v(%v) @ %v", e.Token, e.Value, e.Location)
		}
		return fmt.Sprintf("LEX: %v @ %v", e.Token, e.Location)
	case RuleReduced:
		if e.SubRuleNo > 0 {
			return fmt.Sprintf("REDUCE: %v [%v.%v]", e.Rule, e.RuleNo, e.SubRuleNo)
		}
		return fmt.Sprintf("REDUCE: %v [%v]", e.Rule, e.RuleNo)
	case SemanticStep:
		return fmt.Sprintf("SEMANTIC(%v.%v): %v", e.RuleNo, e.StepNo, e.Instr)
	case ScopeCreated:
		parent := "-"
		if e.ParentID != nil {
			parent = fmt.Sprint(*e.ParentID)
		}
		return fmt.Sprintf("SCOPE CREATE: %v (id=%v, parent=%v)", e.Name, e.TableID, parent)
	case ScopeEntered:
		return fmt.Sprintf("ENTER SCOPE: %v (id=%v)", e.Name, e.TableID)
	case ScopeExited:
		return fmt.Sprintf("EXIT SCOPE: %v (id=%v)", e.Name, e.TableID)
	case SymbolAdded:
		return fmt.Sprintf("ADD SYMBOL: %v : %v (scope %v)", e.Name, e.Type, e.ScopeID)
	case SymbolTypeAssigned:
		return fmt.Sprintf("TYPE ASSIGN: %v ← %v (scope %v)", e.Name, e.Type, e.ScopeID)
	case ASTNodeCreated:
		return fmt.Sprintf("AST NODE CREATED: #%v", e.NodeID)
	case StateEntered:
		return fmt.Sprintf("ENTERING STATE: %v", e.State)
	case StackSnapshot:
		var b strings.Builder
		fmt.Fprintf(&b, "STACK: %v", e.States)
		if e.Lookahead != nil {
			fmt.Fprintf(&b, " lookahead %v", e.Lookahead.Display)
		}
		return b.String()
	case ReduceBegin:
		if e.Count != nil {
			return fmt.Sprintf("REDUCE BEGIN: rule %v, %v symbols", e.RuleNo, *e.Count)
		}
		return fmt.Sprintf("REDUCE BEGIN: rule %v", e.RuleNo)
	case ReduceComplete:
		return fmt.Sprintf("REDUCE COMPLETE: rule %v", e.RuleNo)
	case Opaque:
		return e.String()
	case nil:
		return "(none)"
	}
	return ev.Kind().String()
}
