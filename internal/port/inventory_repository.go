package port

import (
	"context"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
)

type InventoryRepository interface {
	// Load returns the persisted inventory, or an empty one if nothing has been saved yet
	Load(ctx context.Context) (*domain.Inventory, error)

	// Save replaces the persisted inventory with inv
	Save(ctx context.Context, inv *domain.Inventory) error
}
