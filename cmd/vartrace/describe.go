package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var describeFlags = struct {
	stats *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "describe [<log file path>]",
		Short: "Print the steps of a log in readable format",
		Example: `  vartrace describe steps.json
  vartrace describe --stats steps.json
  vartrace describe --sample`,
		Args: logArgs,
		RunE: runDescribe,
	}
	describeFlags.stats = cmd.Flags().Bool("stats", false, "print the number of steps by kind instead of the steps")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	s, name, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}

	if *describeFlags.stats {
		return writeStats(os.Stdout, name, s.Stats())
	}
	return writeSteps(os.Stdout, name, s)
}

var (
	headingColor  = color.New(color.FgCyan, color.Bold)
	indexColor    = color.New(color.FgHiBlack)
	semanticColor = color.New(color.FgYellow)
	unknownColor  = color.New(color.FgRed)
)

func writeSteps(w io.Writer, name string, s *replay.Session) error {
	l := s.Log()
	headingColor.Fprintf(w, "# %v", name)
	if l.Phase() != "" {
		headingColor.Fprintf(w, " (%v)", l.Phase())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	for i, ev := range l.Events() {
		line := event.Summary(ev)
		switch ev.Kind() {
		case event.KindSemanticStep:
			line = semanticColor.Sprint(line)
		case event.KindUnknown:
			line = unknownColor.Sprint(line)
		}
		if _, err := fmt.Fprintf(w, "%v %v\n", indexColor.Sprintf("%5v", i), line); err != nil {
			return err
		}
	}
	return nil
}

func writeStats(w io.Writer, name string, st *event.Stats) error {
	p := message.NewPrinter(language.English)

	headingColor.Fprintf(w, "# %v\n\n", name)
	p.Fprintf(w, "steps:     %d\n", st.Steps)
	p.Fprintf(w, "scopes:    %d\n", st.Scopes)
	p.Fprintf(w, "symbols:   %d\n", st.Symbols)
	p.Fprintf(w, "AST nodes: %d\n", st.ASTNodes)
	if st.Unknown > 0 || st.Unread > 0 {
		unknownColor.Fprint(w, p.Sprintf("unknown:   %d\nunread:    %d\n", st.Unknown, st.Unread))
	}

	kinds := make([]event.Kind, 0, len(st.ByKind))
	for k := range st.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return kinds[i] < kinds[j]
	})
	fmt.Fprintln(w)
	headingColor.Fprintln(w, "# Kinds")
	fmt.Fprintln(w)
	for _, k := range kinds {
		if _, err := p.Fprintf(w, "%10d %v\n", st.ByKind[k], k); err != nil {
			return err
		}
	}
	return nil
}
