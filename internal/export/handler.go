// Package export turns posted documents into PNG images, draw command
// lists and JSX.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ideaspark/wireframe/internal/codegen"
	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/render"
	"github.com/ideaspark/wireframe/internal/scene"
)

const maxUploadSize = 8 << 20 // 8MB

// maxScale bounds the raster scale factor accepted from clients.
const maxScale = 4

type Handler struct {
	resolver render.ImageResolver
}

func NewHandler(resolver render.ImageResolver) *Handler {
	return &Handler{resolver: resolver}
}

// PNG handles POST /export/png?scale=2&name=home with a document body.
func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	s, ok := readScene(w, r)
	if !ok {
		return
	}

	scale, err := strconv.ParseFloat(r.URL.Query().Get("scale"), 64)
	if err != nil || scale <= 0 || scale > maxScale {
		scale = 1
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, s, render.Options{Scale: scale, Resolver: h.resolver}); err != nil {
		if errors.Is(err, render.ErrInvalidCanvas) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("render png", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	slog.Info("export complete", "format", "png", "elements", len(s.Elements), "bytes", buf.Len())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, filename(r)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// Code handles POST /export/code?name=Home and answers with JSX source.
func (h *Handler) Code(w http.ResponseWriter, r *http.Request) {
	s, ok := readScene(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Page"
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, codegen.JSX(name, s))
}

// Commands handles POST /export/commands and answers with the draw command
// list a canvas client paints.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	s, ok := readScene(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(render.Compile(s, render.Overlay{}))
}

func readScene(w http.ResponseWriter, r *http.Request) (scene.Scene, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return scene.Scene{}, false
	}

	s, err := document.Deserialize(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return scene.Scene{}, false
	}
	return s, true
}

func filename(r *http.Request) string {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "wireframe"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
