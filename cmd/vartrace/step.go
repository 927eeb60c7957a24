package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nihei9/vartrace/config"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/ui"
	"github.com/spf13/cobra"
)

var stepFlags = struct {
	ui *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "step [<log file path>]",
		Short: "Step through a log interactively",
		Example: `  vartrace step steps.json
  vartrace step --sample --semantic`,
		Args: logArgs,
		RunE: runStep,
	}
	stepFlags.ui = cmd.Flags().String("ui", "", "use the terminal UI: auto|on|off")
	rootCmd.AddCommand(cmd)
}

func runStep(cmd *cobra.Command, args []string) error {
	mode := env.cfg.Output.UI
	if cmd.Flags().Changed("ui") {
		mode = config.Mode(*stepFlags.ui)
	}
	switch mode {
	case config.ModeAuto, config.ModeOn, config.ModeOff:
	default:
		return fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
	}

	s, name, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}

	if mode.Enabled(isTerminal(os.Stdin) && isTerminal(os.Stdout)) {
		return ui.Run(cmd.Context(), name, s, os.Stdin, os.Stdout)
	}
	return runLineStepper(os.Stdin, os.Stdout, s)
}

// runLineStepper reads one command per line: n(ext), p(rev), s(emantic), q(uit), or a step
// number to jump to. An empty line moves to the next step.
func runLineStepper(r io.Reader, w io.Writer, s *replay.Session) error {
	printCursor := func() {
		ev, ok := s.Log().At(s.Cursor())
		if !ok {
			fmt.Fprintf(w, "%5v before the first step\n", s.Cursor())
			return
		}
		fmt.Fprintf(w, "%5v %v\n", s.Cursor(), event.Summary(ev))
	}

	sc := bufio.NewScanner(r)
	printCursor()
	for sc.Scan() {
		cmd := strings.TrimSpace(sc.Text())
		switch cmd {
		case "", "n", "next":
			s.Next()
		case "p", "prev":
			s.Prev()
		case "s", "semantic":
			s.SetSemantic(!s.Semantic())
			fmt.Fprintf(w, "semantic steps: %v\n", s.Semantic())
		case "q", "quit":
			return nil
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(w, "unknown command: %v\n", cmd)
				continue
			}
			s.Jump(n)
		}
		printCursor()
	}
	return sc.Err()
}
