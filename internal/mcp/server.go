// Package mcpserver exposes the editor command surface as MCP tools so an
// agent can build wireframes.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ideaspark/wireframe/internal/editor"
)

const sceneURI = "wireframe://scene"

// Server is the MCP server for one open document.
type Server struct {
	mcp  *server.MCPServer
	ctrl *editor.Controller
}

// New creates the server with every tool and resource registered.
func New(ctrl *editor.Controller, version string) *Server {
	s := &Server{ctrl: ctrl}
	s.mcp = server.NewMCPServer(
		"wireframe",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerSceneTools()
	s.registerEditTools()
	s.registerViewTools()
	s.registerResources()
	return s
}

// ServeStdio serves MCP on stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	slog.Info("starting MCP stdio server", "document", s.ctrl.DocumentID())
	return server.ServeStdio(s.mcp)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// sceneState is the agent-facing view of the editor.
type sceneState struct {
	Document json.RawMessage `json:"document"`
	Selected string          `json:"selected,omitempty"`
	GridSize float64         `json:"gridSize"`
	Device   string          `json:"device"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
	Dirty    bool            `json:"dirty"`
}

func (s *Server) state() sceneState {
	st := s.ctrl.State()
	return sceneState{
		Document: st.Document,
		Selected: st.Selected,
		GridSize: st.GridSize,
		Device:   st.Device,
		CanUndo:  st.CanUndo,
		CanRedo:  st.CanRedo,
		Dirty:    st.Dirty,
	}
}

func boolPtr(b bool) *bool { return &b }
