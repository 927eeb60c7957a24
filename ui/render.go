package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/symtab"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	topStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	reduceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// Truncate shortens a string to a display width, marking the cut with an ellipsis.
func Truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

func renderTimeline(entries []event.Entry, cursor, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Steps"))
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("no steps"))
		return b.String()
	}
	for _, e := range entries {
		line := Truncate(fmt.Sprintf("%4d  %v", e.Index, event.Summary(e.Event)), width)
		switch {
		case e.Index == cursor:
			b.WriteString(currentStyle.Render("▶ " + line))
		case e.Index > cursor:
			b.WriteString(dimStyle.Render("  " + line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderScopes(st *symtab.State, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Symbol tables"))
	b.WriteString("\n")
	if st == nil || len(st.Scopes) == 0 {
		b.WriteString(dimStyle.Render("no scopes"))
		return b.String()
	}
	var walk func(sc *symtab.Scope, depth int)
	seen := map[int]bool{}
	walk = func(sc *symtab.Scope, depth int) {
		if seen[sc.ID] {
			return
		}
		seen[sc.ID] = true
		indent := strings.Repeat("  ", depth)
		label := Truncate(fmt.Sprintf("%v%v #%v", indent, sc.Name, sc.ID), width)
		if st.FocusID != nil && *st.FocusID == sc.ID {
			b.WriteString(currentStyle.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString("\n")
		for _, sym := range sc.Symbols {
			flags := ""
			if sym.IsFunction {
				flags += " fn"
			}
			if sym.IsDuplicate {
				flags += " dup"
			}
			b.WriteString(Truncate(fmt.Sprintf("%v  %v: %v (%v:%v)%v", indent, sym.Name, sym.Type, sym.Line, sym.Col, flags), width))
			b.WriteString("\n")
		}
		for _, id := range sc.Children {
			if child, ok := st.Scope(id); ok {
				walk(child, depth+1)
			}
		}
	}
	for _, root := range st.Roots() {
		walk(root, 0)
	}
	// Scopes on a parent cycle have no root; show them flat.
	for _, sc := range st.Scopes {
		walk(sc, 0)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStack(snap *automaton.Snapshot, target *automaton.Target, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Parser stack"))
	b.WriteString("\n")
	if snap == nil || len(snap.StateStack) == 0 {
		b.WriteString(dimStyle.Render("empty"))
		return b.String()
	}
	from, _, reducing := snap.ReduceSpan()
	cells := func(items []string) string {
		var cs []string
		for i, item := range items {
			switch {
			case reducing && i >= from:
				cs = append(cs, reduceStyle.Render("["+item+"]"))
			case i == len(items)-1:
				cs = append(cs, topStyle.Render("["+item+"]"))
			default:
				cs = append(cs, "["+item+"]")
			}
		}
		return strings.Join(cs, " ")
	}
	states := make([]string, 0, len(snap.StateStack))
	for _, s := range snap.StateStack {
		states = append(states, fmt.Sprint(s))
	}
	syms := make([]string, 0, len(snap.SymbolStack))
	for _, s := range snap.SymbolStack {
		syms = append(syms, s.Display)
	}
	b.WriteString("states:  " + cells(states) + "\n")
	b.WriteString("symbols: " + cells(syms) + "\n")
	la := "-"
	if snap.Lookahead != nil {
		la = snap.Lookahead.Display
	}
	b.WriteString(Truncate("lookahead: "+la, width) + "\n")
	b.WriteString(Truncate("action: "+describeTarget(target), width))
	return b.String()
}

func describeTarget(t *automaton.Target) string {
	if t == nil {
		return "-"
	}
	switch t.Kind {
	case automaton.TargetShift:
		return fmt.Sprintf("shift %v → %v", t.Symbol, t.To)
	case automaton.TargetGoTo:
		return fmt.Sprintf("goto %v → %v", t.Symbol, t.To)
	}
	if t.Rule != nil {
		return fmt.Sprintf("$default %v (%v)", t.Action, *t.Rule)
	}
	return fmt.Sprintf("$default %v", t.Action)
}

func renderAST(a *replay.AST, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("AST"))
	b.WriteString("\n")
	if a == nil || len(a.Nodes) == 0 {
		b.WriteString(dimStyle.Render("no nodes"))
		return b.String()
	}
	for _, n := range a.Nodes {
		line := Truncate(fmt.Sprintf("#%v %v", n.ID, n.Label), width)
		if a.Intent != nil && a.Intent.NodeID == n.ID {
			b.WriteString(currentStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	var keys []string
	for _, e := range a.Edges {
		keys = append(keys, e.Key())
	}
	b.WriteString(dimStyle.Render(Truncate("edges: "+strings.Join(keys, " "), width)))
	return b.String()
}

func renderRule(snap *replay.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Grammar"))
	b.WriteString("\n")
	if snap.Rule == nil {
		b.WriteString(dimStyle.Render("no reduction yet"))
	} else {
		label := fmt.Sprintf("rule %v", snap.Rule.RuleNo)
		if snap.Rule.SubRuleNo > 0 {
			label = fmt.Sprintf("rule %v.%v", snap.Rule.RuleNo, snap.Rule.SubRuleNo)
		}
		b.WriteString(Truncate(fmt.Sprintf("%v: %v", label, snap.Rule.Text), width))
	}
	if snap.SemanticStep != nil {
		b.WriteString("\n")
		b.WriteString(currentStyle.Render(Truncate(fmt.Sprintf("semantic %v.%v: %v", snap.SemanticStep.RuleNo, snap.SemanticStep.StepNo, snap.SemanticStep.Instr), width)))
	}
	if snap.Token != nil {
		b.WriteString("\n")
		tok := snap.Token.Token
		if snap.Token.Value != "" {
			tok = fmt.Sprintf("%v(%v)", snap.Token.Token, snap.Token.Value)
		}
		b.WriteString(dimStyle.Render(Truncate(fmt.Sprintf("token %v @ %v", tok, snap.Token.Location), width)))
	}
	return b.String()
}
