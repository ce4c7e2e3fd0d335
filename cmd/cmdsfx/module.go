package cmdsfx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/config/configfx"
	"github.com/0x5457/textsim/internal/models"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

const defaultMCPAddr = ":8080"

// CommandRunner provides methods to run different application commands
type CommandRunner struct {
	config    *configfx.Config
	compare   *compare.Service
	mcpServer *server.MCPServer
}

// Params represents dependencies for command runner
type Params struct {
	fx.In

	Config    *configfx.Config
	Compare   *compare.Service  `optional:"true"`
	MCPServer *server.MCPServer `optional:"true"`
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(params Params) *CommandRunner {
	return &CommandRunner{
		config:    params.Config,
		compare:   params.Compare,
		mcpServer: params.MCPServer,
	}
}

// RunCompare scores one text pair and prints the result
func (r *CommandRunner) RunCompare(
	ctx context.Context,
	w io.Writer,
	req models.EmbeddingRequest,
	asJSON bool,
) error {
	if r.compare == nil {
		return fmt.Errorf("compare service not available")
	}

	res, err := r.compare.Compute(ctx, req)
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(w).Encode(res)
	}
	_, err = fmt.Fprintf(w, "%s: %.6f\n", req.Model, res.Similarity)
	return err
}

// RunModels prints the accepted model names
func (r *CommandRunner) RunModels(w io.Writer) error {
	if r.compare == nil {
		return fmt.Errorf("compare service not available")
	}
	for _, name := range r.compare.Models() {
		suffix := ""
		if name == models.DefaultModel {
			suffix = " (default)"
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", name, suffix); err != nil {
			return err
		}
	}
	return nil
}

// RunMCPServer executes the MCP server
func (r *CommandRunner) RunMCPServer(transport, address string) error {
	if r.mcpServer == nil {
		return fmt.Errorf("MCP server not available")
	}

	addr := address
	if addr == "" {
		addr = defaultMCPAddr
	}

	switch transport {
	case "stdio":
		return server.ServeStdio(r.mcpServer)
	case "http":
		httpSrv := server.NewStreamableHTTPServer(r.mcpServer)
		return httpSrv.Start(addr)
	case "sse":
		// SSE server exposes two endpoints under /mcp
		sseSrv := server.NewSSEServer(r.mcpServer,
			server.WithBaseURL(""),
			server.WithStaticBasePath("/mcp"),
		)
		return sseSrv.Start(addr)
	default:
		return fmt.Errorf(
			"unsupported transport: %s (supported: stdio, http, sse)",
			transport,
		)
	}
}

// Module provides command runner
var Module = fx.Module("commands",
	fx.Provide(NewCommandRunner),
)
