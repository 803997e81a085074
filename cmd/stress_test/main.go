package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/inventory-tracker/internal/adapter/storage"
	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/core/service"
)

const (
	itemID          = "stress-item"
	initialStock    = 100
	totalAdds       = 200
	totalRemoves    = 100
	duplicateBursts = 50
	queueSize       = 100
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "inventory-stress-")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	// Initialize adapter and service
	logger := zap.NewNop().Sugar()
	repo := storage.NewJSONFileAdapter(filepath.Join(dir, "inventory.json"), logger)

	inv := domain.NewInventory()
	inv.Set(itemID, initialStock)
	if err := repo.Save(ctx, inv); err != nil {
		log.Fatalf("failed to seed inventory: %v", err)
	}

	inventoryService := service.NewInventoryService(inv, service.NewStockService(logger), storage.NewMemoryIdempotency(), nil, queueSize)

	persisterDone := make(chan struct{})
	go func() {
		defer close(persisterDone)
		service.PersistLoop(inventoryService.GetSaveQueue(), repo, logger, 5*time.Second)
	}()

	// Counters
	var addCount atomic.Int32
	var removeCount atomic.Int32
	var duplicateCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalAdds; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := inventoryService.AddStock(ctx, fmt.Sprintf("add-%d", n), itemID, 1); err != nil {
				failCount.Add(1)
				return
			}
			addCount.Add(1)
		}(i)
	}

	for i := 0; i < totalRemoves; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := inventoryService.RemoveStock(ctx, fmt.Sprintf("remove-%d", n), itemID, 1); err != nil {
				failCount.Add(1)
				return
			}
			removeCount.Add(1)
		}(i)
	}

	// Every burst repeats one request ID; only the first may apply
	for i := 0; i < duplicateBursts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := inventoryService.AddStock(ctx, "burst", itemID, 1)
			switch {
			case err == nil:
				addCount.Add(1)
			case errors.Is(err, service.ErrDuplicateRequest):
				duplicateCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	inventoryService.Close()
	<-persisterDone

	// Results
	adds := addCount.Load()
	removes := removeCount.Load()
	duplicates := duplicateCount.Load()
	expected := initialStock + int(adds) - int(removes)
	final := inventoryService.Quantity(itemID)

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Adds:             %d/%d\n", adds, totalAdds+1)
	fmt.Printf("Removes:          %d/%d\n", removes, totalRemoves)
	fmt.Printf("Duplicates:       %d/%d\n", duplicates, duplicateBursts)
	fmt.Printf("Failed:           %d\n", failCount.Load())
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if adds == totalAdds+1 && removes == totalRemoves && duplicates == duplicateBursts-1 {
		fmt.Println("PASS: every unique request applied exactly once")
	} else {
		fmt.Printf("FAIL: Expected %d adds/%d removes/%d duplicates, got %d/%d/%d\n",
			totalAdds+1, totalRemoves, duplicateBursts-1, adds, removes, duplicates)
	}

	if final == expected {
		fmt.Printf("PASS: In-memory stock is %d\n", final)
	} else {
		fmt.Printf("FAIL: Expected stock %d, got %d\n", expected, final)
	}

	// Verify the persisted snapshot
	persisted, err := repo.Load(ctx)
	if err != nil {
		log.Fatalf("failed to reload inventory: %v", err)
	}
	persistedStock, _ := persisted.Get(itemID)
	fmt.Printf("Persisted Stock:  %d\n", persistedStock)

	if persistedStock == expected {
		fmt.Println("PASS: Persisted stock matches")
	} else {
		fmt.Printf("FAIL: Expected persisted stock %d, got %d\n", expected, persistedStock)
	}
}
