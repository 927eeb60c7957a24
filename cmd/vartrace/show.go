package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"
	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/symtab"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	cursor *int
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show [<log file path>]",
		Short: "Print the state reconstructed at a step",
		Example: `  vartrace show --cursor 12 steps.json
  vartrace show --format json --sample`,
		Args: logArgs,
		RunE: runShow,
	}
	showFlags.cursor = cmd.Flags().IntP("cursor", "c", -1, "step to show; a value past the last step shows the last step")
	showFlags.format = cmd.Flags().StringP("format", "f", "text", "output format: text|json")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	switch *showFlags.format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be text or json)", *showFlags.format)
	}

	s, _, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	s.Jump(*showFlags.cursor)
	snap := s.Snapshot()

	if *showFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return writeSnapshot(os.Stdout, snap)
}

const snapshotTemplate = `# Step

{{ printStep . }}
{{ with .Token }}
token {{ printToken . }}
{{ end }}
# Symbol Tables
{{ range .Scopes.Scopes }}
## {{ printScope . }}
{{ range .Symbols }}
{{ printSymbol . }}
{{- end }}
{{ else }}
no scope
{{ end }}
# AST
{{ with .AST }}{{ range .Nodes }}
{{ printf "%4v" .ID }} {{ .Label }}
{{- end }}
{{ range .Edges }}
{{ .Key }}
{{- end }}
{{ end }}
# Automaton

{{ printStack .Automaton }}
{{ printTarget .Highlight }}

# Rule

{{ printRule . }}
`

func writeSnapshot(w io.Writer, snap *replay.Snapshot) error {
	var focus *int
	if snap.Scopes != nil {
		focus = snap.Scopes.FocusID
	}

	fns := template.FuncMap{
		"printStep": func(snap *replay.Snapshot) string {
			if snap.Step == nil {
				return fmt.Sprintf("before the first step (%v steps)", snap.Len)
			}
			return fmt.Sprintf("%v/%v %v", snap.Step.Index, snap.Len-1, snap.Step.Summary)
		},
		"printToken": func(tok *replay.Token) string {
			t := tok.Token
			if tok.Value != "" {
				t = fmt.Sprintf("%v(%v)", tok.Token, tok.Value)
			}
			if tok.PrevLocation != "" {
				return fmt.Sprintf("%v @ %v (previous %v)", t, tok.Location, tok.PrevLocation)
			}
			return fmt.Sprintf("%v @ %v", t, tok.Location)
		},
		"printScope": func(sc *symtab.Scope) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v #%v", sc.Name, sc.ID)
			if sc.ParentID != nil {
				fmt.Fprintf(&b, " (in #%v)", *sc.ParentID)
			}
			if focus != nil && *focus == sc.ID {
				fmt.Fprintf(&b, " *")
			}
			return b.String()
		},
		"printSymbol": func(sym *symtab.Symbol) string {
			var flags []string
			if sym.IsFunction {
				flags = append(flags, "function")
			}
			if sym.IsDuplicate {
				flags = append(flags, "duplicate")
			}
			s := fmt.Sprintf("%v %v %v:%v",
				runewidth.FillRight(runewidth.Truncate(sym.Name, 20, "..."), 20),
				runewidth.FillRight(runewidth.Truncate(sym.Type, 16, "..."), 16),
				sym.Line, sym.Col)
			if len(flags) > 0 {
				s = fmt.Sprintf("%v [%v]", s, strings.Join(flags, ", "))
			}
			return s
		},
		"printStack": func(a *automaton.Snapshot) string {
			if a == nil || len(a.StateStack) == 0 {
				return "no stack"
			}
			var b strings.Builder
			from, _, reducing := a.ReduceSpan()
			fmt.Fprintf(&b, "states: ")
			for i, s := range a.StateStack {
				if reducing && i == from {
					fmt.Fprintf(&b, " |")
				}
				fmt.Fprintf(&b, " %v", s)
			}
			fmt.Fprintf(&b, "\nsymbols:")
			for i, s := range a.SymbolStack {
				if reducing && i == from {
					fmt.Fprintf(&b, " |")
				}
				fmt.Fprintf(&b, " %v", s.Display)
			}
			if a.Lookahead != nil {
				fmt.Fprintf(&b, "\nlookahead: %v", a.Lookahead.Display)
			}
			if a.ReduceInProgress {
				fmt.Fprintf(&b, "\nreducing")
				if a.ReduceRule != nil {
					fmt.Fprintf(&b, " rule %v", *a.ReduceRule)
				}
			}
			return b.String()
		},
		"printTarget": func(t *automaton.Target) string {
			if t == nil {
				return "no action"
			}
			switch t.Kind {
			case automaton.TargetShift:
				return fmt.Sprintf("state %v: shift  %4v on %v", t.State, t.To, t.Symbol)
			case automaton.TargetGoTo:
				return fmt.Sprintf("state %v: goto   %4v on %v", t.State, t.To, t.Symbol)
			}
			if t.Rule != nil {
				return fmt.Sprintf("state %v: default %v %v", t.State, t.Action, *t.Rule)
			}
			return fmt.Sprintf("state %v: default %v", t.State, t.Action)
		},
		"printRule": func(snap *replay.Snapshot) string {
			var b strings.Builder
			if snap.Rule == nil {
				fmt.Fprintf(&b, "no rule")
			} else if snap.Rule.SubRuleNo > 0 {
				fmt.Fprintf(&b, "%v.%v %v", snap.Rule.RuleNo, snap.Rule.SubRuleNo, snap.Rule.Text)
			} else {
				fmt.Fprintf(&b, "%v %v", snap.Rule.RuleNo, snap.Rule.Text)
			}
			if snap.SemanticStep != nil {
				fmt.Fprintf(&b, "\nsemantic step %v.%v: %v", snap.SemanticStep.RuleNo, snap.SemanticStep.StepNo, snap.SemanticStep.Instr)
			}
			return b.String()
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(snapshotTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, snap)
}
