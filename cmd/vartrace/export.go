package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nihei9/vartrace/export"
	"github.com/spf13/cobra"
)

var exportFlags = struct {
	format *string
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "export [<log file path>]",
		Short: "Write the reconstructed state at every step",
		Example: `  vartrace export steps.json > frames.json
  vartrace export --format msgpack --output frames.msgpack steps.json`,
		Args: logArgs,
		RunE: runExport,
	}
	exportFlags.format = cmd.Flags().StringP("format", "f", string(export.FormatJSON), "output format: json|ndjson|msgpack")
	exportFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) (retErr error) {
	format, err := export.ParseFormat(*exportFlags.format)
	if err != nil {
		return err
	}

	s, name, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *exportFlags.output != "" {
		f, err := os.Create(*exportFlags.output)
		if err != nil {
			return fmt.Errorf("Cannot create the output file %s: %w", *exportFlags.output, err)
		}
		defer func() {
			if err := f.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}()
		w = f
	}

	bw := bufio.NewWriter(w)
	if err := export.Write(bw, s, format); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	env.logger.Info("exported",
		slog.String("log", name),
		slog.String("format", string(format)),
		slog.Int("steps", s.Len()),
	)
	return nil
}
