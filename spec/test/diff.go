package test

import (
	"fmt"
	"strings"

	"github.com/nihei9/vartrace/replay"
)

// SnapshotDiff is one expectation a snapshot did not meet. Path names the checked fact, such as
// `scopes[1].symbols[0].type`.
type SnapshotDiff struct {
	Path    string
	Message string
}

func newDiff(path string, expected, actual interface{}) *SnapshotDiff {
	return &SnapshotDiff{
		Path:    path,
		Message: fmt.Sprintf("unexpected %v: expected '%v' but got '%v'", path, expected, actual),
	}
}

func fmtInt(p *int) string {
	if p == nil {
		return "<none>"
	}
	return fmt.Sprint(*p)
}

func DiffSnapshot(exp *Expect, snap *replay.Snapshot) []*SnapshotDiff {
	if exp == nil {
		return nil
	}
	var diffs []*SnapshotDiff
	if exp.Cursor != nil && *exp.Cursor != snap.Cursor {
		diffs = append(diffs, newDiff("cursor", *exp.Cursor, snap.Cursor))
	}
	diffs = append(diffs, diffScopes(exp, snap)...)
	diffs = append(diffs, diffAST(exp, snap)...)
	diffs = append(diffs, diffAutomaton(exp, snap)...)
	if exp.Rule != nil {
		var act *int
		if snap.Rule != nil {
			act = &snap.Rule.RuleNo
		}
		if act == nil || *act != *exp.Rule {
			diffs = append(diffs, newDiff("rule", *exp.Rule, fmtInt(act)))
		}
	}
	if exp.SemanticStep != nil {
		want := fmt.Sprintf("%v.%v", exp.SemanticStep.Rule, exp.SemanticStep.Step)
		got := "<none>"
		if snap.SemanticStep != nil {
			got = fmt.Sprintf("%v.%v", snap.SemanticStep.RuleNo, snap.SemanticStep.StepNo)
		}
		if want != got {
			diffs = append(diffs, newDiff("semantic_step", want, got))
		}
	}
	return diffs
}

func diffScopes(exp *Expect, snap *replay.Snapshot) []*SnapshotDiff {
	var diffs []*SnapshotDiff
	st := snap.Scopes
	if exp.NoFocus && st != nil && st.FocusID != nil {
		diffs = append(diffs, newDiff("focus", "<none>", *st.FocusID))
	}
	if exp.Focus != nil {
		var act *int
		if st != nil {
			act = st.FocusID
		}
		if act == nil || *act != *exp.Focus {
			diffs = append(diffs, newDiff("focus", *exp.Focus, fmtInt(act)))
		}
	}
	for _, es := range exp.Scopes {
		if es == nil {
			continue
		}
		path := fmt.Sprintf("scopes[%v]", es.ID)
		sc, ok := st.Scope(es.ID)
		if !ok {
			diffs = append(diffs, &SnapshotDiff{
				Path:    path,
				Message: fmt.Sprintf("scope %v does not exist", es.ID),
			})
			continue
		}
		if es.Name != nil && *es.Name != sc.Name {
			diffs = append(diffs, newDiff(path+".name", *es.Name, sc.Name))
		}
		if es.Root && sc.ParentID != nil {
			diffs = append(diffs, newDiff(path+".parent", "<none>", *sc.ParentID))
		}
		if es.Parent != nil && (sc.ParentID == nil || *sc.ParentID != *es.Parent) {
			diffs = append(diffs, newDiff(path+".parent", *es.Parent, fmtInt(sc.ParentID)))
		}
		if es.Symbols == nil {
			continue
		}
		if len(es.Symbols) != len(sc.Symbols) {
			diffs = append(diffs, newDiff(path+".symbols", fmt.Sprintf("%v symbols", len(es.Symbols)), fmt.Sprintf("%v symbols", len(sc.Symbols))))
			continue
		}
		for i, sym := range es.Symbols {
			act := sc.Symbols[i]
			spath := fmt.Sprintf("%v.symbols[%v]", path, i)
			if sym.Name != act.Name {
				diffs = append(diffs, newDiff(spath+".name", sym.Name, act.Name))
			}
			if sym.Type != nil && *sym.Type != act.Type {
				diffs = append(diffs, newDiff(spath+".type", *sym.Type, act.Type))
			}
		}
	}
	return diffs
}

func diffAST(exp *Expect, snap *replay.Snapshot) []*SnapshotDiff {
	var diffs []*SnapshotDiff
	if exp.VisibleNodes != nil {
		var act []string
		if snap.AST != nil {
			for _, n := range snap.AST.Nodes {
				act = append(act, fmt.Sprint(n.ID))
			}
		}
		var want []string
		for _, id := range exp.VisibleNodes {
			want = append(want, fmt.Sprint(id))
		}
		if strings.Join(want, ",") != strings.Join(act, ",") {
			diffs = append(diffs, newDiff("visible_nodes", strings.Join(want, ","), strings.Join(act, ",")))
		}
	}
	if exp.VisibleEdges != nil {
		var act []string
		if snap.AST != nil {
			for _, e := range snap.AST.Edges {
				act = append(act, e.Key())
			}
		}
		if strings.Join(exp.VisibleEdges, ",") != strings.Join(act, ",") {
			diffs = append(diffs, newDiff("visible_edges", strings.Join(exp.VisibleEdges, ","), strings.Join(act, ",")))
		}
	}
	return diffs
}

func diffAutomaton(exp *Expect, snap *replay.Snapshot) []*SnapshotDiff {
	var diffs []*SnapshotDiff
	if exp.ActiveState != nil {
		var act *int
		if st, ok := snap.Automaton.ActiveState(); ok {
			act = &st
		}
		if act == nil || *act != *exp.ActiveState {
			diffs = append(diffs, newDiff("active_state", *exp.ActiveState, fmtInt(act)))
		}
	}
	if exp.NoHighlight && snap.Highlight != nil {
		diffs = append(diffs, newDiff("highlight", "<none>", snap.Highlight.Kind))
	}
	if eh := exp.Highlight; eh != nil {
		h := snap.Highlight
		if h == nil {
			diffs = append(diffs, newDiff("highlight", eh.Kind, "<none>"))
			return diffs
		}
		if eh.Kind != string(h.Kind) {
			diffs = append(diffs, newDiff("highlight.kind", eh.Kind, h.Kind))
		}
		if eh.Symbol != nil && *eh.Symbol != h.Symbol {
			diffs = append(diffs, newDiff("highlight.symbol", *eh.Symbol, h.Symbol))
		}
		if eh.To != nil && *eh.To != h.To {
			diffs = append(diffs, newDiff("highlight.to", *eh.To, h.To))
		}
		if eh.Rule != nil && (h.Rule == nil || *h.Rule != *eh.Rule) {
			diffs = append(diffs, newDiff("highlight.rule", *eh.Rule, fmtInt(h.Rule)))
		}
	}
	return diffs
}
