// Package mcp exposes text similarity as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"

	"github.com/0x5457/textsim/internal/compare"
	"github.com/0x5457/textsim/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "textsim/mcp"
	ServerVersion = "0.1.0"
)

// Comparer scores text pairs.
type Comparer interface {
	Compute(ctx context.Context, req models.EmbeddingRequest) (models.SimilarityResult, error)
	Models() []string
}

type Server struct {
	comparer Comparer
}

// New returns an MCP server exposing the similarity tools.
func New(comparer Comparer) *server.MCPServer {
	srv := &Server{comparer: comparer}
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)
	s.AddTool(newComputeSimilarityTool(), srv.handleComputeSimilarity)
	s.AddTool(newListModelsTool(), srv.handleListModels)
	return s
}

func newComputeSimilarityTool() mcp.Tool {
	return mcp.NewTool(
		"compute_similarity",
		mcp.WithDescription("Cosine similarity of two texts, from -1 to 1"),
		mcp.WithString("text1", mcp.Description("First text"), mcp.Required()),
		mcp.WithString("text2", mcp.Description("Second text"), mcp.Required()),
		mcp.WithString("model",
			mcp.Description("Embedding model"),
			mcp.Enum(models.ModelSentenceTransformers, models.ModelBertSmall),
			mcp.DefaultString(models.DefaultModel),
		),
	)
}

func newListModelsTool() mcp.Tool {
	return mcp.NewTool(
		"list_models",
		mcp.WithDescription("List the embedding models accepted by compute_similarity"),
	)
}

func (srv *Server) handleComputeSimilarity(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	text1, err := req.RequireString("text1")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text2, err := req.RequireString("text2")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := srv.comparer.Compute(ctx, models.EmbeddingRequest{
		Text1: text1,
		Text2: text2,
		Model: req.GetString("model", models.DefaultModel),
	})
	if err != nil {
		if errors.Is(err, compare.ErrUnsupportedModel) {
			return mcp.NewToolResultError(compare.UnsupportedModelMessage), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(res), nil
}

func (srv *Server) handleListModels(
	_ context.Context,
	_ mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"models":  srv.comparer.Models(),
		"default": models.DefaultModel,
	}), nil
}
