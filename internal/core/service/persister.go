package service

import (
	"context"
	"time"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

// PersistLoop saves snapshots from queue until the queue is closed. When
// several snapshots are waiting only the highest version is written. A failed save is
// logged and the next snapshot overwrites it.
func PersistLoop(queue <-chan *domain.Inventory, repo port.InventoryRepository, logger port.Logger, timeout time.Duration) {
	var saved int64 = -1

	for first := range queue {
		snapshot, open := latest(first, queue)

		if snapshot.Version > saved {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			if err := repo.Save(ctx, snapshot); err != nil {
				logger.Errorf("persister: failed to save inventory v%d: %v", snapshot.Version, err)
			} else {
				saved = snapshot.Version
				logger.Infof("persister: saved inventory v%d (%d items)", snapshot.Version, snapshot.Len())
			}
			cancel()
		}

		if !open {
			return
		}
	}
}

// latest drains whatever is already buffered in queue without blocking.
func latest(snapshot *domain.Inventory, queue <-chan *domain.Inventory) (*domain.Inventory, bool) {
	for {
		select {
		case next, ok := <-queue:
			if !ok {
				return snapshot, false
			}
			if next.Version > snapshot.Version {
				snapshot = next
			}
		default:
			return snapshot, true
		}
	}
}
