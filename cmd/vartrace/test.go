package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/nihei9/vartrace/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "test <test file path>|<test directory path>",
		Short: "Replay logs and check the reconstructed state",
		Example: `  vartrace test testdata
  vartrace test --grammar grammar.yaml --states states.json case.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	b, err := blueprint.LoadBundle(cmd.Context(), env.cfg.BlueprintPaths())
	if err != nil {
		return fmt.Errorf("Cannot read the blueprints: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[0])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Bundle: b,
		Cases:  cs,
	}
	rs := t.Run(cmd.Context())
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
