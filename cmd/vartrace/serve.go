package main

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nihei9/vartrace/mcp"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve [<log file path>]",
		Short: "Serve a replay session to MCP clients over stdio",
		Example: `  vartrace serve steps.json
  vartrace serve --sample`,
		Args: logArgs,
		RunE: runServe,
	}
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, _, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}

	server := mcp.NewServer(s, collectVersion(), env.logger)
	return server.Run(cmd.Context(), &sdk.StdioTransport{})
}
