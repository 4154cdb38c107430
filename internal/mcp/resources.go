package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		sceneURI,
		"Current scene document",
		mcp.WithMIMEType("application/json"),
	), s.handleSceneResource)
}

func (s *Server) handleSceneResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      sceneURI,
			MIMEType: "application/json",
			Text:     string(s.ctrl.Document()),
		},
	}, nil
}
