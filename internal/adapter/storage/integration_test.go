package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/core/service"
	"github.com/rl1809/inventory-tracker/internal/port"
)

type testEnv struct {
	repo    port.InventoryRepository
	idem    port.IdempotencyStore
	cleanup func()
}

func setupSQLiteEnv(t *testing.T) *testEnv {
	adapter, _ := newMigratedSQLite(t)
	return &testEnv{repo: adapter, idem: NewMemoryIdempotency(), cleanup: func() {}}
}

func setupRedisEnv(t *testing.T) *testEnv {
	client := getRedisClient(t)
	logger, _ := newObservedLogger()
	prefix := testPrefix()
	adapter := NewRedisAdapter(client, prefix, logger)

	return &testEnv{
		repo: adapter,
		idem: adapter,
		cleanup: func() {
			cleanupPrefix(context.Background(), client, prefix)
			client.Close()
		},
	}
}

func setupMySQLEnv(t *testing.T) *testEnv {
	db := getMySQLDB(t)
	logger, _ := newObservedLogger()
	adapter := NewSQLAdapter(db, DialectMySQL, logger)
	ctx := context.Background()
	require.NoError(t, adapter.Migrate(ctx))
	db.ExecContext(ctx, `DELETE FROM inventory`)

	return &testEnv{
		repo: adapter,
		idem: NewMemoryIdempotency(),
		cleanup: func() {
			db.ExecContext(context.Background(), `DELETE FROM inventory`)
			db.Close()
		},
	}
}

func startPersister(svc *service.InventoryService, repo port.InventoryRepository) *sync.WaitGroup {
	logger, _ := newObservedLogger()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		service.PersistLoop(svc.GetSaveQueue(), repo, logger, 5*time.Second)
	}()
	return &wg
}

func TestIntegration_ConcurrentStockFlow(t *testing.T) {
	backends := []struct {
		name  string
		setup func(t *testing.T) *testEnv
	}{
		{"sqlite", setupSQLiteEnv},
		{"redis", setupRedisEnv},
		{"mysql", setupMySQLEnv},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			env := backend.setup(t)
			defer env.cleanup()

			ctx := context.Background()
			logger, _ := newObservedLogger()

			inv, err := env.repo.Load(ctx)
			require.NoError(t, err)
			inv.Set("widget", 10)

			svc := service.NewInventoryService(inv, service.NewStockService(logger), env.idem, nil, 100)
			wg := startPersister(svc, env.repo)

			var successCount atomic.Int32
			var requestWg sync.WaitGroup
			totalRequests := 20

			for i := 0; i < totalRequests; i++ {
				requestWg.Add(1)
				go func() {
					defer requestWg.Done()
					if _, err := svc.AddStock(ctx, uuid.New().String(), "widget", 2); err == nil {
						successCount.Add(1)
					}
				}()
			}
			requestWg.Wait()

			require.NoError(t, svc.RemoveStock(ctx, uuid.New().String(), "widget", 5))
			_, err = svc.AddStock(ctx, "", "gadget", 1)
			require.NoError(t, err)

			svc.Close()
			wg.Wait()

			assert.Equal(t, int32(totalRequests), successCount.Load())

			loaded, err := env.repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, []domain.StockLevel{
				{Item: "widget", Quantity: 10 + 2*totalRequests - 5},
				{Item: "gadget", Quantity: 1},
			}, loaded.Items())
		})
	}
}

func TestIntegration_SaveFailureKeepsServing(t *testing.T) {
	db := getSQLiteDB(t)
	logger, logs := newObservedLogger()
	// No migration yet, so every save fails
	adapter := NewSQLAdapter(db, DialectSQLite, logger)
	ctx := context.Background()

	svc := service.NewInventoryService(domain.NewInventory(), service.NewStockService(logger), NewMemoryIdempotency(), nil, 100)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		service.PersistLoop(svc.GetSaveQueue(), adapter, logger, 5*time.Second)
	}()

	_, err := svc.AddStock(ctx, "", "apple", 3)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return logs.FilterMessageSnippet("failed to save inventory").Len() > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, adapter.Migrate(ctx))
	_, err = svc.AddStock(ctx, "", "apple", 4)
	require.NoError(t, err)

	svc.Close()
	wg.Wait()

	assert.Equal(t, 7, svc.Quantity("apple"))
	loaded, err := adapter.Load(ctx)
	require.NoError(t, err)
	qty, _ := loaded.Get("apple")
	assert.Equal(t, 7, qty)
}

func TestIntegration_RedisIdempotencyPreventsDoubleApply(t *testing.T) {
	env := setupRedisEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	logger, _ := newObservedLogger()
	requestID := "same-request-id-" + uuid.New().String()

	inv := domain.NewInventory()
	inv.Set("widget", 10)
	svc := service.NewInventoryService(inv, service.NewStockService(logger), env.idem, nil, 100)
	wg := startPersister(svc, env.repo)

	// First call
	err := svc.RemoveStock(ctx, requestID, "widget", 1)
	require.NoError(t, err)

	// Second call with same requestID
	err = svc.RemoveStock(ctx, requestID, "widget", 1)
	assert.ErrorIs(t, err, service.ErrDuplicateRequest)

	svc.Close()
	wg.Wait()

	assert.Equal(t, 9, svc.Quantity("widget"))
}
