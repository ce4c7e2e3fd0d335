package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const startTimeout = 10 * time.Second

// Client wraps an initialized MCP client session.
type Client struct{ c *client.Client }

// NewStdioClient launches command with args and speaks MCP over its stdio.
func NewStdioClient(ctx context.Context, command string, args ...string) (*Client, error) {
	return start(ctx, transport.NewStdio(command, nil, args...))
}

// NewHTTPClient connects to a streamable HTTP endpoint such as
// http://127.0.0.1:8080/mcp.
func NewHTTPClient(ctx context.Context, url string) (*Client, error) {
	tr, err := transport.NewStreamableHTTP(url)
	if err != nil {
		return nil, fmt.Errorf("new streamable http transport: %w", err)
	}
	return start(ctx, tr)
}

// NewSSEClient connects to an SSE endpoint such as
// http://127.0.0.1:8080/mcp/sse.
func NewSSEClient(ctx context.Context, url string) (*Client, error) {
	tr, err := transport.NewSSE(url)
	if err != nil {
		return nil, fmt.Errorf("new sse transport: %w", err)
	}
	return start(ctx, tr)
}

// NewInProcessClient talks to srv without any transport.
func NewInProcessClient(ctx context.Context, srv *server.MCPServer) (*Client, error) {
	return start(ctx, transport.NewInProcessTransport(srv))
}

func start(ctx context.Context, tr transport.Interface) (*Client, error) {
	cli := client.NewClient(tr)

	ctxStart, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := cli.Start(ctxStart); err != nil {
		return nil, fmt.Errorf("start mcp client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "textsim-cli", Version: ServerVersion}
	initReq.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("init mcp client: %w", err)
	}
	return &Client{c: cli}, nil
}

func (c *Client) Close() error { return c.c.Close() }

func (c *Client) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	return c.c.CallTool(ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}})
}

func (c *Client) ListTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	return c.c.ListTools(ctx, mcp.ListToolsRequest{})
}
