package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ideaspark/wireframe/internal/config"
	"github.com/ideaspark/wireframe/internal/editor"
	"github.com/ideaspark/wireframe/internal/scene"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	for _, content := range []string{"first", "second"} {
		if err := writeFileAtomic(path, []byte(content)); err != nil {
			t.Fatalf("writeFileAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != content {
			t.Errorf("content = %q, want %q", got, content)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temporary files left behind)", len(entries))
	}
}

func TestOpenFileControllerSavesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	cmd := &cobra.Command{}
	cmd.SetContext(withSettings(context.Background(), config.DefaultSettings()))

	ctrl, err := openFileController(cmd, path, "")
	if err != nil {
		t.Fatalf("openFileController() error = %v", err)
	}
	res, err := ctrl.Execute(context.Background(), editor.Command{Name: editor.CmdInsertElement, Kind: scene.KindButton})
	if err != nil {
		t.Fatal(err)
	}
	if err := ctrl.SaveDocument(context.Background()); err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	if ctrl.Dirty() {
		t.Error("controller dirty after save")
	}

	reopened, err := openFileController(cmd, path, "")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if !reopened.Scene().Contains(res.ID) {
		t.Errorf("reloaded scene missing %s", res.ID)
	}
}

func TestOpenFileControllerRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	if _, err := openFileController(cmd, path, ""); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("missing logger should fall back to log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("logger not returned from context")
	}

	newProgress(l).done("Rendered")
	if !bytes.Contains(buf.Bytes(), []byte("Rendered")) {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestSettingsFromContextDefaults(t *testing.T) {
	got := settingsFromContext(context.Background())
	if got != config.DefaultSettings() {
		t.Errorf("settingsFromContext() = %+v, want defaults", got)
	}
}
