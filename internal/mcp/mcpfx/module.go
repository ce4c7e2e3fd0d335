package mcpfx

import (
	"github.com/0x5457/textsim/internal/compare"
	appmcp "github.com/0x5457/textsim/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
)

// Params represents dependencies for MCP server
type Params struct {
	fx.In

	Compare *compare.Service
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(params Params) *server.MCPServer {
	return appmcp.New(params.Compare)
}

// Module provides MCP server components
var Module = fx.Module("mcp",
	fx.Provide(NewMCPServer),
)
