package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

const DefaultDataFile = "inventory.json"

// JSONFileAdapter keeps the inventory in a single JSON file. Save truncates and
// rewrites the file in place; there is no temp file or backup.
type JSONFileAdapter struct {
	path   string
	logger port.Logger
}

func NewJSONFileAdapter(path string, logger port.Logger) *JSONFileAdapter {
	if path == "" {
		path = DefaultDataFile
	}
	return &JSONFileAdapter{path: path, logger: logger}
}

func (a *JSONFileAdapter) Path() string {
	return a.path
}

func (a *JSONFileAdapter) Load(ctx context.Context) (*domain.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		a.logger.Warnf("'%s' not found. Starting with empty inventory.", a.path)
		return domain.NewInventory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}

	inv, err := DecodeInventory(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.path, err)
	}
	return inv, nil
}

func (a *JSONFileAdapter) Save(ctx context.Context, inv *domain.Inventory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeInventory(inv)
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.path, err)
	}
	return nil
}
