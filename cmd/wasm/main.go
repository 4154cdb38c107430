//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/ideaspark/wireframe/internal/codegen"
	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/render"
	"github.com/ideaspark/wireframe/internal/templates"
)

var ctrl *editor.Controller

func main() {
	var err error
	ctrl, err = editor.New(editor.Options{DocumentID: "doc_local"})
	if err != nil {
		panic(err)
	}

	// Create the editor API object
	wireframeEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	wireframeEditor.Set("loadDocument", js.FuncOf(loadDocument))
	wireframeEditor.Set("loadSamplePage", js.FuncOf(loadSamplePage))
	wireframeEditor.Set("execute", js.FuncOf(execute))
	wireframeEditor.Set("pointerDown", js.FuncOf(pointerDown))
	wireframeEditor.Set("pointerMove", js.FuncOf(pointerMove))
	wireframeEditor.Set("pointerUp", js.FuncOf(pointerUp))

	// --- Queries (frontend ← editor) ---
	wireframeEditor.Set("render", js.FuncOf(renderCommands))
	wireframeEditor.Set("hitTest", js.FuncOf(hitTest))
	wireframeEditor.Set("getState", js.FuncOf(getState))
	wireframeEditor.Set("getDocument", js.FuncOf(getDocument))
	wireframeEditor.Set("getSelection", js.FuncOf(getSelection))
	wireframeEditor.Set("exportCode", js.FuncOf(exportCode))

	// Register on global scope
	js.Global().Set("wireframeEditor", wireframeEditor)

	// Signal that WASM is ready
	js.Global().Set("wireframeWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	if err := ctrl.Import([]byte(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// loadSamplePage replaces the scene with the "ecommerce" (default) or
// "dashboard" page composition.
func loadSamplePage(this js.Value, args []js.Value) interface{} {
	name := "ecommerce"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}

	compose := templates.Ecommerce
	if name == "dashboard" {
		compose = templates.Dashboard
	}
	s := ctrl.Scene()
	s.Elements = nil
	for _, el := range compose(s.CanvasSize) {
		var err error
		if s, _, err = s.Insert(el, -1); err != nil {
			return errorResult(err)
		}
	}
	if err := ctrl.Import(document.Serialize(s)); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func execute(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing command JSON"})
	}
	var cmd editor.Command
	if err := json.Unmarshal([]byte(args[0].String()), &cmd); err != nil {
		return errorResult(err)
	}
	res, err := ctrl.Execute(context.Background(), cmd)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "id": res.ID, "changed": res.Changed})
}

func pointer(args []js.Value, fn func(x, y float64) bool) interface{} {
	if len(args) < 2 {
		return js.ValueOf(false)
	}
	return js.ValueOf(fn(args[0].Float(), args[1].Float()))
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	return pointer(args, ctrl.PointerDown)
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	return pointer(args, ctrl.PointerMove)
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	return pointer(args, ctrl.PointerUp)
}

// --- Query Handlers ---

func renderCommands(this js.Value, args []js.Value) interface{} {
	out, err := render.ToJSON(ctrl.DrawCommands())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(render.HitTest(ctrl.Scene(), args[0].Float(), args[1].Float()))
}

func getState(this js.Value, args []js.Value) interface{} {
	st := ctrl.State()
	data, _ := json.Marshal(map[string]interface{}{
		"document": json.RawMessage(st.Document),
		"selected": st.Selected,
		"mode":     st.Mode.String(),
		"gridSize": st.GridSize,
		"device":   st.Device,
		"canUndo":  st.CanUndo,
		"canRedo":  st.CanRedo,
	})
	return js.ValueOf(string(data))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(ctrl.Document()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ctrl.Selection())
}

func exportCode(this js.Value, args []js.Value) interface{} {
	name := "Page"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		name = args[0].String()
	}
	return js.ValueOf(codegen.JSX(name, ctrl.Scene()))
}
