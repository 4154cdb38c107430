package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="logo.png"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest("POST", "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndResolve(t *testing.T) {
	h := NewHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "image/png", pngBytes(t, 4, 3)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Width != 4 || resp.Height != 3 || resp.Name != "logo.png" {
		t.Errorf("response = %+v", resp)
	}

	for _, src := range []string{resp.URL, resp.ID, resp.ID + ".png"} {
		img, err := h.ResolveImage(src)
		if err != nil {
			t.Errorf("ResolveImage(%q) error = %v", src, err)
			continue
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("ResolveImage(%q) width = %d", src, img.Bounds().Dx())
		}
	}

	srv := httptest.NewRecorder()
	h.Serve().ServeHTTP(srv, httptest.NewRequest("GET", resp.URL, nil))
	if srv.Code != http.StatusOK || srv.Header().Get("Cache-Control") == "" {
		t.Errorf("serve status = %d, cache = %q", srv.Code, srv.Header().Get("Cache-Control"))
	}

	if err := h.Delete(resp.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := h.ResolveImage(resp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ResolveImage() after delete error = %v, want ErrNotFound", err)
	}
}

func TestUploadRejects(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{"unsupported type", "image/gif", []byte("GIF89a")},
		{"corrupt png", "image/png", []byte("not a png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(t.TempDir())
			rec := httptest.NewRecorder()
			h.Upload(rec, uploadRequest(t, tt.contentType, tt.data))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestResolveImageRejects(t *testing.T) {
	h := NewHandler(t.TempDir())
	for _, src := range []string{"https://example.com/a.png", "", "../../etc/passwd", "asset_missing"} {
		if _, err := h.ResolveImage(src); err == nil {
			t.Errorf("ResolveImage(%q) error = nil", src)
		}
	}
}
