package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/0x5457/textsim/internal/app/appfx"
	appmcp "github.com/0x5457/textsim/internal/mcp"
	"github.com/0x5457/textsim/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const (
	transportStdio  = "stdio"
	transportHTTP   = "http"
	transportSSE    = "sse"
	transportInproc = "inproc"

	clientTimeout = 60 * time.Second
)

type clientFlags struct {
	transport string
	address   string
}

// NewMCPClientCommand creates commands for talking to a textsim MCP server
func NewMCPClientCommand(opts *appfx.Options) *cobra.Command {
	flags := &clientFlags{}

	cmd := &cobra.Command{
		Use:   "mcp-client",
		Short: "MCP client commands",
		Long:  "Commands for connecting to and interacting with textsim MCP servers",
	}

	cmd.AddCommand(
		newMCPCallCommand(opts, flags),
		newMCPListToolsCommand(opts, flags),
		newMCPCompareCommand(opts, flags),
	)

	cmd.PersistentFlags().
		StringVarP(&flags.transport, "transport", "t", transportStdio, "transport (stdio, http, sse, inproc)")
	cmd.PersistentFlags().
		StringVarP(&flags.address, "address", "a", "", "server URL (http/sse), ignored for stdio/inproc")
	return cmd
}

func newMCPCallCommand(opts *appfx.Options, flags *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool_name> [key=value...]",
		Short: "Call a specific MCP tool",
		Long: `Call a specific MCP tool with arguments.
Arguments should be provided as key=value pairs.

Example:
  textsim mcp-client call compute_similarity text1="a cat" text2="a kitten" model=bert-small`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseToolArgs(args[1:])
			if err != nil {
				return err
			}
			return callTool(cmd.Context(), cmd.OutOrStdout(), *opts, *flags, args[0], toolArgs)
		},
	}
}

func newMCPCompareCommand(opts *appfx.Options, flags *clientFlags) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "compare <text1> <text2>",
		Short: "Score two texts through the compute_similarity tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs := map[string]any{
				"text1": args[0],
				"text2": args[1],
				"model": model,
			}
			return callTool(cmd.Context(), cmd.OutOrStdout(), *opts, *flags, "compute_similarity", toolArgs)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", models.DefaultModel, "embedding model")
	return cmd
}

func newMCPListToolsCommand(opts *appfx.Options, flags *clientFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list-tools",
		Short: "List available MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
			defer cancel()

			client, stop, err := createMCPClient(ctx, *opts, *flags)
			if err != nil {
				return fmt.Errorf("create MCP client failed: %w", err)
			}
			defer stop()

			result, err := client.ListTools(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tools: %w", err)
			}
			printTools(cmd.OutOrStdout(), result.Tools)
			return nil
		},
	}
}

func callTool(
	ctx context.Context,
	w io.Writer,
	opts appfx.Options,
	flags clientFlags,
	name string,
	args map[string]any,
) error {
	ctx, cancel := context.WithTimeout(ctx, clientTimeout)
	defer cancel()

	client, stop, err := createMCPClient(ctx, opts, flags)
	if err != nil {
		return fmt.Errorf("create MCP client failed: %w", err)
	}
	defer stop()

	result, err := client.Call(ctx, name, args)
	if err != nil {
		return fmt.Errorf("call tool failed: %w", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("format result failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// parseToolArgs turns key=value pairs into tool arguments. Numbers and
// booleans are converted, everything else stays a string.
func parseToolArgs(args []string) (map[string]any, error) {
	toolArgs := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument format: %s (expected key=value)", arg)
		}
		if val, err := strconv.Atoi(value); err == nil {
			toolArgs[key] = val
		} else if val, err := strconv.ParseBool(value); err == nil {
			toolArgs[key] = val
		} else {
			toolArgs[key] = value
		}
	}
	return toolArgs, nil
}

func printTools(w io.Writer, tools []mcp.Tool) {
	if len(tools) == 0 {
		fmt.Fprintln(w, "No tools available")
		return
	}

	fmt.Fprintf(w, "Available MCP tools (%d):\n\n", len(tools))
	for i, tool := range tools {
		fmt.Fprintf(w, "%d. %s\n", i+1, tool.Name)
		if tool.Description != "" {
			fmt.Fprintf(w, "   Description: %s\n", tool.Description)
		}
		if len(tool.InputSchema.Properties) > 0 {
			fmt.Fprintf(w, "   Parameters:\n")
			names := make([]string, 0, len(tool.InputSchema.Properties))
			for name := range tool.InputSchema.Properties {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				required := ""
				if slices.Contains(tool.InputSchema.Required, name) {
					required = " (required)"
				}
				desc := ""
				if propMap, ok := tool.InputSchema.Properties[name].(map[string]any); ok {
					if d, ok := propMap["description"].(string); ok {
						desc = ": " + d
					}
				}
				fmt.Fprintf(w, "     - %s%s%s\n", name, required, desc)
			}
		}
		fmt.Fprintln(w)
	}
}

// createMCPClient connects with the selected transport. The returned stop
// function closes the client and anything started for it.
func createMCPClient(
	ctx context.Context,
	opts appfx.Options,
	flags clientFlags,
) (*appmcp.Client, func(), error) {
	var (
		client *appmcp.Client
		err    error
		stop   = func() {}
	)

	switch flags.transport {
	case transportStdio:
		var exe string
		exe, err = os.Executable()
		if err != nil {
			return nil, nil, fmt.Errorf("locate executable: %w", err)
		}
		client, err = appmcp.NewStdioClient(ctx, exe, serverArgs(opts)...)
	case transportHTTP:
		address := flags.address
		if address == "" {
			address = "http://127.0.0.1:8080/mcp"
		}
		client, err = appmcp.NewHTTPClient(ctx, address)
	case transportSSE:
		address := flags.address
		if address == "" {
			address = "http://127.0.0.1:8080/mcp/sse"
		}
		client, err = appmcp.NewSSEClient(ctx, address)
	case transportInproc:
		var srv *server.MCPServer
		app := appfx.NewAppWithConfig(opts, fx.Populate(&srv))
		if err := app.Start(ctx); err != nil {
			return nil, nil, fmt.Errorf("initialize components failed: %w", err)
		}
		stop = func() { _ = app.Stop(context.Background()) }
		client, err = appmcp.NewInProcessClient(ctx, srv)
	default:
		return nil, nil, fmt.Errorf(
			"unsupported transport: %s (supported: stdio, http, sse, inproc)",
			flags.transport,
		)
	}
	if err != nil {
		stop()
		return nil, nil, err
	}
	return client, func() {
		_ = client.Close()
		stop()
	}, nil
}

// serverArgs forwards the global flags to a spawned "textsim mcp".
func serverArgs(opts appfx.Options) []string {
	args := []string{"mcp", "--transport", transportStdio}
	if opts.ConfigFile != "" {
		args = append(args, "--config", opts.ConfigFile)
	}
	if opts.Backend != "" {
		args = append(args, "--backend", opts.Backend)
	}
	if opts.DBPath != "" {
		args = append(args, "--db", opts.DBPath)
	}
	return args
}
