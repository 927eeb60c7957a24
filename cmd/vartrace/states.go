package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "states <states file path>",
		Short: "Print a states blueprint in readable format",
		Example: `  vartrace states states.json
  vartrace states --grammar grammar.yaml states.json`,
		Args: cobra.ExactArgs(1),
		RunE: runStates,
	}
	rootCmd.AddCommand(cmd)
}

func runStates(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	t, err := blueprint.ReadStateTable(args[0])
	if err != nil {
		return err
	}
	var g *blueprint.Grammar
	if p := env.cfg.Blueprints.Grammar; p != "" {
		g, err = blueprint.ReadGrammar(p)
		if err != nil {
			return err
		}
	}

	return writeStates(os.Stdout, g, t)
}

const statesTemplate = `{{ with .Grammar -}}
# Rules

{{ range .Groups -}}
{{ printRuleGroup . }}
{{ end }}
{{ end -}}
# States
{{ range .States.States }}
## State {{ .State }}

{{ range .Items -}}
{{ printItem . }}
{{ end }}
{{ range .Shifts -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduces -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTos -}}
{{ printGoTo . }}
{{ end -}}
{{ with .Default -}}
{{ printDefault . }}
{{ end -}}
{{ end }}`

func writeStates(w io.Writer, g *blueprint.Grammar, t *blueprint.StateTable) error {
	ruleText := func(ruleNo int) string {
		if r, ok := g.Rule(ruleNo); ok {
			return r.Text
		}
		return ""
	}

	fns := template.FuncMap{
		"printRuleGroup": func(grp *blueprint.RuleGroup) string {
			var b strings.Builder
			for i, r := range grp.Rules {
				if i > 0 {
					fmt.Fprintln(&b)
				}
				no := fmt.Sprint(r.RuleNo)
				if r.SubRuleNo > 0 {
					no = fmt.Sprintf("%v.%v", r.RuleNo, r.SubRuleNo)
				}
				fmt.Fprintf(&b, "%6v %v", no, r.Text)
				for _, s := range r.SemanticSteps {
					fmt.Fprintf(&b, "\n         {%v} %v", s.StepNo, s.Instr)
				}
			}
			return b.String()
		},
		"printItem": func(item *blueprint.Item) string {
			return fmt.Sprintf("%4v %v", item.Rule, item.Item)
		},
		"printShift": func(s *blueprint.Shift) string {
			return fmt.Sprintf("shift  %4v on %v", s.To, s.Symbol)
		},
		"printReduce": func(r *blueprint.Reduce) string {
			on := r.Symbol
			if on == "" {
				on = "$default"
			}
			if text := ruleText(r.Rule); text != "" {
				return fmt.Sprintf("reduce %4v on %v (%v)", r.Rule, on, text)
			}
			return fmt.Sprintf("reduce %4v on %v", r.Rule, on)
		},
		"printGoTo": func(g *blueprint.GoTo) string {
			return fmt.Sprintf("goto   %4v on %v", g.To, g.Symbol)
		},
		"printDefault": func(d *blueprint.DefaultAction) string {
			if d.Action == blueprint.DefaultActionAccept {
				return "$default accept"
			}
			if d.Rule == nil {
				return fmt.Sprintf("$default %v", d.Action)
			}
			if d.LHS != "" {
				return fmt.Sprintf("$default %v %4v (%v)", d.Action, *d.Rule, d.LHS)
			}
			return fmt.Sprintf("$default %v %4v", d.Action, *d.Rule)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(statesTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, struct {
		Grammar *blueprint.Grammar
		States  *blueprint.StateTable
	}{
		Grammar: g,
		States:  t,
	})
}
