//go:build js && wasm

package main

import (
	"bytes"
	"encoding/json"
	"syscall/js"

	"github.com/inamate/paint/internal/document"
	"github.com/inamate/paint/internal/engine"
	"github.com/inamate/paint/internal/geom"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	paintEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	paintEngine.Set("loadDocument", js.FuncOf(loadDocument))
	paintEngine.Set("saveDocument", js.FuncOf(saveDocument))
	paintEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	paintEngine.Set("pointerDown", js.FuncOf(pointerDown))
	paintEngine.Set("pointerDrag", js.FuncOf(pointerDrag))
	paintEngine.Set("pointerUp", js.FuncOf(pointerUp))
	paintEngine.Set("pointerLeave", js.FuncOf(pointerLeave))
	paintEngine.Set("setToolSettings", js.FuncOf(setToolSettings))
	paintEngine.Set("deleteSelected", js.FuncOf(deleteSelected))
	paintEngine.Set("clear", js.FuncOf(clearDocument))

	// --- Queries (frontend ← engine) ---
	paintEngine.Set("render", js.FuncOf(render))
	paintEngine.Set("hitTest", js.FuncOf(hitTest))
	paintEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	paintEngine.Set("getSelection", js.FuncOf(getSelection))
	paintEngine.Set("getHandles", js.FuncOf(getHandles))
	paintEngine.Set("getToolSettings", js.FuncOf(getToolSettings))
	paintEngine.Set("isModified", js.FuncOf(isModified))

	// Register on global scope
	js.Global().Set("paintEngine", paintEngine)

	// Signal that WASM is ready
	js.Global().Set("paintWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func pointArg(args []js.Value) (geom.Point, bool) {
	if len(args) < 2 {
		return geom.Point{}, false
	}
	return geom.Pt(args[0].Float(), args[1].Float()), true
}

func toJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

// loadDocument takes the bytes of a .paint file as a Uint8Array.
func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing paint file")
	}

	data := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(data, args[0])
	if err := eng.Load(bytes.NewReader(data)); err != nil {
		return fail(err.Error())
	}

	return ok()
}

// saveDocument returns the .paint file as a Uint8Array.
func saveDocument(this js.Value, args []js.Value) interface{} {
	var buf bytes.Buffer
	if err := eng.Save(&buf); err != nil {
		return fail(err.Error())
	}

	out := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(out, buf.Bytes())
	eng.MarkSaved()
	return out
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	for _, obj := range document.NewSampleDocument().Objects() {
		eng.Document().Append(obj)
	}
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	p, valid := pointArg(args)
	if !valid {
		return fail("missing point")
	}
	if err := eng.PointerDown(p); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func pointerDrag(this js.Value, args []js.Value) interface{} {
	p, valid := pointArg(args)
	if !valid {
		return fail("missing point")
	}
	if err := eng.PointerDrag(p); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if err := eng.PointerUp(); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	if err := eng.PointerLeave(); err != nil {
		return fail(err.Error())
	}
	return ok()
}

// setToolSettings takes JSON like {"tool":"rect","color":"#FF0000","width":2}.
func setToolSettings(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing tool settings JSON")
	}
	var settings engine.ToolSettings
	if err := json.Unmarshal([]byte(args[0].String()), &settings); err != nil {
		return fail(err.Error())
	}
	eng.SetToolSettings(settings)
	return ok()
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DeleteSelected())
}

func clearDocument(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, valid := pointArg(args)
	if !valid {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(p))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.SelectionBounds())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	id, _ := eng.Selection()
	return js.ValueOf(id)
}

func getHandles(this js.Value, args []js.Value) interface{} {
	h, selected := eng.Handles()
	if !selected {
		return js.ValueOf("null")
	}
	return toJSON(h)
}

func getToolSettings(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.ToolSettings())
}

func isModified(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Modified())
}
