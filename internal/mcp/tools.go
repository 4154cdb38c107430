package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ideaspark/wireframe/internal/codegen"
	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/scene"
	"github.com/ideaspark/wireframe/internal/snap"
	"github.com/ideaspark/wireframe/internal/templates"
)

func kindNames() string {
	var names []string
	for _, k := range scene.Kinds() {
		if k != scene.KindGroup {
			names = append(names, string(k))
		}
	}
	return strings.Join(names, ", ")
}

func (s *Server) registerSceneTools() {
	s.mcp.AddTool(mcp.NewTool("get_scene",
		mcp.WithDescription("Return the current document, selection, grid size, device preset and undo state"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleGetScene)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List template blocks, device presets and grid presets"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListTemplates)

	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Persist the current scene"),
	), s.handleSaveDocument)
}

func (s *Server) registerEditTools() {
	s.mcp.AddTool(mcp.NewTool("insert_element",
		mcp.WithDescription("Insert a default element at the canvas origin and select it"),
		mcp.WithString("kind", mcp.Description("Element kind: "+kindNames()), mcp.Required()),
	), s.handleInsertElement)

	s.mcp.AddTool(mcp.NewTool("insert_template",
		mcp.WithDescription("Insert a prebuilt template block sized for the canvas and select it"),
		mcp.WithString("name", mcp.Description("Template name: "+strings.Join(templates.Names(), ", ")), mcp.Required()),
	), s.handleInsertTemplate)

	s.mcp.AddTool(mcp.NewTool("select_element",
		mcp.WithDescription("Select an element by id. An empty id clears the selection"),
		mcp.WithString("id", mcp.Description("Element ID")),
	), s.handleSelectElement)

	s.mcp.AddTool(mcp.NewTool("update_element",
		mcp.WithDescription("Move, resize or restyle an element. Omitted fields are unchanged"),
		mcp.WithString("id", mcp.Description("Element ID (optional, defaults to the selection)")),
		mcp.WithNumber("x", mcp.Description("New X position")),
		mcp.WithNumber("y", mcp.Description("New Y position")),
		mcp.WithNumber("width", mcp.Description("New width")),
		mcp.WithNumber("height", mcp.Description("New height")),
		mcp.WithNumber("opacity", mcp.Description("Opacity between 0 and 1")),
		mcp.WithString("styleJSON", mcp.Description(`JSON object merged over the element style, e.g. {"fill":"#3b82f6"}`)),
	), s.handleUpdateElement)

	s.mcp.AddTool(mcp.NewTool("delete_selected",
		mcp.WithDescription("Delete the selected element and its children"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleCommand(editor.CmdDeleteSelected))

	s.mcp.AddTool(mcp.NewTool("duplicate_selected",
		mcp.WithDescription("Copy the selected element, offset down and right, and select the copy"),
	), s.handleCommand(editor.CmdDuplicateSelected))

	s.mcp.AddTool(mcp.NewTool("bring_to_front",
		mcp.WithDescription("Move the selected element to the top of the paint order"),
	), s.handleCommand(editor.CmdBringToFront))

	s.mcp.AddTool(mcp.NewTool("send_to_back",
		mcp.WithDescription("Move the selected element to the bottom of the paint order"),
	), s.handleCommand(editor.CmdSendToBack))

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change"),
	), s.handleCommand(editor.CmdUndo))

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change"),
	), s.handleCommand(editor.CmdRedo))
}

func (s *Server) registerViewTools() {
	s.mcp.AddTool(mcp.NewTool("set_grid_size",
		mcp.WithDescription("Set the snap grid by cell size or preset name"),
		mcp.WithNumber("size", mcp.Description("Cell size in pixels, greater than zero")),
		mcp.WithString("preset", mcp.Description("Preset name: "+strings.Join(snap.PresetNames(), ", "))),
	), s.handleSetGridSize)

	s.mcp.AddTool(mcp.NewTool("set_device_preset",
		mcp.WithDescription("Resize the canvas to a device preset"),
		mcp.WithString("device", mcp.Description("desktop, tablet or mobile"), mcp.Required()),
	), s.handleSetDevicePreset)

	s.mcp.AddTool(mcp.NewTool("export_png",
		mcp.WithDescription("Render the scene to a PNG image"),
		mcp.WithNumber("scale", mcp.Description("Pixels per canvas unit (optional, default 1)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleExportPNG)

	s.mcp.AddTool(mcp.NewTool("export_code",
		mcp.WithDescription("Generate a JSX component from the scene"),
		mcp.WithString("name", mcp.Description("Component name (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleExportCode)
}

func (s *Server) handleGetScene(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.state())
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"templates":   templates.Names(),
		"devices":     editor.Devices(),
		"gridPresets": snap.PresetNames(),
	})
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.ctrl.SaveDocument(ctx); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Document %s saved", s.ctrl.DocumentID())), nil
}

func (s *Server) handleInsertElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := scene.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, editor.Command{Name: editor.CmdInsertElement, Kind: kind})
}

func (s *Server) handleInsertTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.execute(ctx, editor.Command{Name: editor.CmdInsertTemplate, Template: req.GetString("name", "")})
}

func (s *Server) handleSelectElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.execute(ctx, editor.Command{Name: editor.CmdSelectElement, ID: req.GetString("id", "")})
}

func (s *Server) handleUpdateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var p scene.Patch
	for key, dst := range map[string]**float64{
		"x": &p.X, "y": &p.Y, "width": &p.Width, "height": &p.Height, "opacity": &p.Opacity,
	} {
		if v, ok := args[key].(float64); ok {
			*dst = &v
		}
	}
	if style := req.GetString("styleJSON", ""); style != "" {
		if !json.Valid([]byte(style)) {
			return nil, fmt.Errorf("styleJSON is not valid JSON")
		}
		p.Style = json.RawMessage(style)
	}
	return s.execute(ctx, editor.Command{Name: editor.CmdUpdateElement, ID: req.GetString("id", ""), Patch: &p})
}

func (s *Server) handleSetGridSize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if preset := req.GetString("preset", ""); preset != "" {
		return s.execute(ctx, editor.Command{Name: editor.CmdSetGridPreset, Preset: preset})
	}
	return s.execute(ctx, editor.Command{Name: editor.CmdSetGridSize, GridSize: req.GetFloat("size", 0)})
}

func (s *Server) handleSetDevicePreset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.execute(ctx, editor.Command{Name: editor.CmdSetDevicePreset, Device: req.GetString("device", "")})
}

func (s *Server) handleCommand(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.execute(ctx, editor.Command{Name: name})
	}
}

func (s *Server) execute(ctx context.Context, cmd editor.Command) (*mcp.CallToolResult, error) {
	res, err := s.ctrl.Execute(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return jsonResult(map[string]any{
		"id":       res.ID,
		"changed":  res.Changed,
		"selected": s.ctrl.Selection(),
	})
}

func (s *Server) handleExportPNG(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := s.ctrl.ExportImage(&buf, req.GetFloat("scale", 1)); err != nil {
		return nil, err
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())
	return mcp.NewToolResultImage(fmt.Sprintf("PNG, %d bytes", buf.Len()), data, "image/png"), nil
}

func (s *Server) handleExportCode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(codegen.JSX(req.GetString("name", "Page"), s.ctrl.Scene())), nil
}
