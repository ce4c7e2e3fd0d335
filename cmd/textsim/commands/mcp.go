package commands

import (
	"github.com/0x5457/textsim/cmd/cmdsfx"
	"github.com/0x5457/textsim/internal/app/appfx"
	"github.com/spf13/cobra"
)

// NewMCPServeCommand runs an MCP server exposing the similarity tools.
func NewMCPServeCommand(opts *appfx.Options) *cobra.Command {
	var (
		transport string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run MCP server",
		Long:  "Run MCP server, provide compute_similarity and list_models tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd.Context(), *opts, func(r *cmdsfx.CommandRunner) error {
				return r.RunMCPServer(transport, address)
			})
		},
	}

	cmd.Flags().
		StringVarP(&transport, "transport", "t", "stdio", "transport (stdio, http, sse)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "server address (http modes), e.g. :8080")

	return cmd
}
