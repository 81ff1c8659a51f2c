package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileManifest reads the manifest.json of an unpacked extension.
type FileManifest struct {
	Path string
}

func NewFileManifest(extensionDir string) *FileManifest {
	return &FileManifest{Path: filepath.Join(extensionDir, "manifest.json")}
}

func (f *FileManifest) Manifest(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return m, nil
}
