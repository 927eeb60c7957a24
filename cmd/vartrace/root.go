package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/nihei9/vartrace/config"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/sample"
	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootFlags = struct {
	config   *string
	logLevel *string
	color    *string
	sample   *bool
	semantic *bool
	grammar  *string
	states   *string
	ast      *string
}{}

var rootCmd = &cobra.Command{
	Use:   "vartrace",
	Short: "Replay a parser trace step by step",
	Long: `vartrace replays a trace recorded by a parser and reconstructs, at any step:
- the symbol tables and the scope in focus,
- the AST nodes created so far,
- the LR automaton state and the action about to be taken,
- the active grammar rule and semantic sub-step.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	rootFlags.config = pf.String("config", "", "configuration file (default: vartrace.toml found from the working directory up)")
	rootFlags.logLevel = pf.String("log-level", "", "log level: debug|info|warn|error")
	rootFlags.color = pf.String("color", "", "colorize output: auto|on|off")
	rootFlags.sample = pf.Bool("sample", false, "replay the embedded sample trace instead of a log file")
	rootFlags.semantic = pf.Bool("semantic", false, "stop on semantic sub-steps")
	rootFlags.grammar = pf.String("grammar", "", "grammar blueprint")
	rootFlags.states = pf.String("states", "", "states blueprint")
	rootFlags.ast = pf.String("ast", "", "AST blueprint")
}

// env is what every command shares once the flags and the configuration were read.
var env = struct {
	cfg    *config.Config
	logger *slog.Logger
}{}

func setup(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if *rootFlags.config != "" {
		cfg, err = config.Load(*rootFlags.config)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return fmt.Errorf("Cannot read the configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = *rootFlags.logLevel
	}
	if flags.Changed("color") {
		cfg.Output.Color = config.Mode(*rootFlags.color)
	}
	if flags.Changed("semantic") {
		cfg.Replay.Semantic = *rootFlags.semantic
	}
	if flags.Changed("grammar") {
		cfg.Blueprints.Grammar = *rootFlags.grammar
	}
	if flags.Changed("states") {
		cfg.Blueprints.States = *rootFlags.states
	}
	if flags.Changed("ast") {
		cfg.Blueprints.AST = *rootFlags.ast
	}

	level, err := config.ParseLevel(cfg.Output.LogLevel)
	if err != nil {
		return err
	}
	switch cfg.Output.Color {
	case config.ModeAuto, config.ModeOn, config.ModeOff:
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", cfg.Output.Color)
	}
	color.NoColor = !cfg.Output.Color.Enabled(isTerminal(os.Stdout))

	env.cfg = cfg
	env.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(env.logger)
	if cfg.Path != "" {
		env.logger.Debug("configuration loaded", slog.String("path", cfg.Path))
	}
	return nil
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logArgs accepts the log file path, or nothing when --sample is set.
func logArgs(cmd *cobra.Command, args []string) error {
	if *rootFlags.sample {
		return cobra.NoArgs(cmd, args)
	}
	if len(args) != 1 {
		return errors.New("a log file path is required (or --sample)")
	}
	return nil
}

// openSession builds a session over the log named by args, or over the sample. It returns the
// name to show for the log.
func openSession(ctx context.Context, args []string) (*replay.Session, string, error) {
	opts := []replay.Option{
		replay.WithLogger(env.logger),
		replay.WithSemantic(env.cfg.Replay.Semantic),
	}

	if *rootFlags.sample {
		b, err := sample.Bundle()
		if err != nil {
			return nil, "", err
		}
		l, err := sample.Log()
		if err != nil {
			return nil, "", err
		}
		s := replay.NewSession(b, opts...)
		if err := s.Load(l); err != nil {
			return nil, "", err
		}
		return s, sample.Name, nil
	}

	b, err := blueprint.LoadBundle(ctx, env.cfg.BlueprintPaths())
	if err != nil {
		return nil, "", fmt.Errorf("Cannot read the blueprints: %w", err)
	}
	s := replay.NewSession(b, opts...)
	if err := s.LoadFile(args[0]); err != nil {
		return nil, "", err
	}
	return s, args[0], nil
}
