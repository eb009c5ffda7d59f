package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStore keeps the cart in one JSON file, the local-storage analog for a
// CLI session. A missing or unreadable record is an empty cart, never an
// error surfaced to the user.
type FileStore struct {
	path string
	log  *slog.Logger
}

func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = slog.Default()
	}
	return &FileStore{path: path, log: log}
}

func (f *FileStore) Load(_ context.Context) ([]Line, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		f.log.Warn("cart file unreadable, starting empty", "path", f.path, "error", err)
		return nil, nil
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		f.log.Warn("cart file corrupt, resetting to empty", "path", f.path, "error", err)
		return nil, nil
	}

	return lines, nil
}

func (f *FileStore) Save(_ context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cart: %w", err)
	}
	return nil
}
