package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ideaspark/wireframe/internal/document"
	"github.com/ideaspark/wireframe/internal/scene"
)

func readScene(path string) (scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Scene{}, err
	}
	s, err := document.Deserialize(data)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// filePersister stores documents as files. The document id is the path.
type filePersister struct{}

func (filePersister) Load(_ context.Context, id string) ([]byte, error) {
	return os.ReadFile(id)
}

func (filePersister) Save(_ context.Context, id string, data []byte) error {
	return writeFileAtomic(id, data)
}

// writeFileAtomic replaces path through a temporary file in the same
// directory so readers never observe a partial document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// outputPath derives an output file from the input when none is given.
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return input[:len(input)-len(filepath.Ext(input))] + "." + ext
}
