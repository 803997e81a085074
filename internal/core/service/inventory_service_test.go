package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
)

// Mock MetricsRecorder
type mockMetrics struct {
	mu        sync.Mutex
	mutations map[string]int
	missing   int
	items     int
}

func (m *mockMetrics) RecordMutation(op string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutations == nil {
		m.mutations = make(map[string]int)
	}
	m.mutations[op]++
}

func (m *mockMetrics) RecordMissingItem() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.missing++
}

func (m *mockMetrics) SetItemCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = n
}

func newTestInventoryService(queueSize int) (*InventoryService, *mockIdempotency, *mockMetrics) {
	stock, _ := newTestStockService()
	idem := newMockIdempotency()
	metrics := &mockMetrics{}
	return NewInventoryService(domain.NewInventory(), stock, idem, metrics, queueSize), idem, metrics
}

func drain(svc *InventoryService) *sync.WaitGroup {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range svc.GetSaveQueue() {
		}
	}()
	return &wg
}

func TestAddStock_Success(t *testing.T) {
	svc, _, metrics := newTestInventoryService(10)

	tx, err := svc.AddStock(context.Background(), "req-1", "apple", 10)
	require.NoError(t, err)

	assert.Equal(t, "apple", tx.Item)
	assert.Equal(t, 10, svc.Quantity("apple"))
	assert.Equal(t, []string{"2024-03-01 09:15:02.123456: Added 10 of apple"}, svc.Transactions())
	assert.Equal(t, 1, metrics.mutations["add"])
	assert.Equal(t, 1, metrics.items)

	snapshot := <-svc.GetSaveQueue()
	assert.Equal(t, int64(1), snapshot.Version)
	assert.Equal(t, []domain.StockLevel{{Item: "apple", Quantity: 10}}, snapshot.Items())

	svc.Close()
}

func TestAddStock_DuplicateRequest(t *testing.T) {
	svc, _, _ := newTestInventoryService(10)
	wg := drain(svc)

	_, err := svc.AddStock(context.Background(), "req-1", "apple", 10)
	require.NoError(t, err)

	_, err = svc.AddStock(context.Background(), "req-1", "apple", 10)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	assert.Equal(t, 10, svc.Quantity("apple"))

	svc.Close()
	wg.Wait()
}

func TestAddStock_EmptyRequestIDSkipsIdempotency(t *testing.T) {
	svc, idem, _ := newTestInventoryService(10)
	wg := drain(svc)

	for i := 0; i < 3; i++ {
		_, err := svc.AddStock(context.Background(), "", "apple", 1)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, svc.Quantity("apple"))
	assert.Empty(t, idem.keys)

	svc.Close()
	wg.Wait()
}

func TestAddStock_IdempotencyFailure(t *testing.T) {
	svc, idem, _ := newTestInventoryService(10)
	idem.err = errBoom

	_, err := svc.AddStock(context.Background(), "req-1", "apple", 1)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, svc.Quantity("apple"))
	svc.Close()
}

func TestAddStock_EmptyItem(t *testing.T) {
	svc, _, _ := newTestInventoryService(10)
	defer svc.Close()

	_, err := svc.AddStock(context.Background(), "req-1", "", 1)
	assert.ErrorIs(t, err, ErrEmptyItem)
}

func TestRemoveStock_NotFound(t *testing.T) {
	svc, _, metrics := newTestInventoryService(10)
	defer svc.Close()

	err := svc.RemoveStock(context.Background(), "req-1", "orange", 1)

	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 1, metrics.missing)
	assert.Len(t, svc.GetSaveQueue(), 0)
}

func TestRemoveStock_PrunesAndPublishes(t *testing.T) {
	svc, _, metrics := newTestInventoryService(10)

	_, err := svc.AddStock(context.Background(), "", "apple", 2)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveStock(context.Background(), "", "apple", 5))

	assert.Empty(t, svc.Items())
	assert.Equal(t, 0, metrics.items)

	svc.Close()
	var versions []int64
	for snapshot := range svc.GetSaveQueue() {
		versions = append(versions, snapshot.Version)
	}
	assert.Equal(t, []int64{1, 2}, versions)
}

func TestClose_RejectsMutations(t *testing.T) {
	svc, _, _ := newTestInventoryService(10)
	svc.Close()
	svc.Close()

	_, err := svc.AddStock(context.Background(), "req-1", "apple", 1)
	assert.ErrorIs(t, err, ErrServiceClosed)

	err = svc.RemoveStock(context.Background(), "", "apple", 1)
	assert.ErrorIs(t, err, ErrServiceClosed)
}

func TestAddRemove_Concurrent(t *testing.T) {
	svc, _, _ := newTestInventoryService(100)
	wg := drain(svc)

	_, err := svc.AddStock(context.Background(), "", "widget", 1000)
	require.NoError(t, err)

	var failCount atomic.Int32
	var callers sync.WaitGroup
	for i := 0; i < 50; i++ {
		callers.Add(1)
		go func(id int) {
			defer callers.Done()
			ctx := context.Background()
			if _, err := svc.AddStock(ctx, fmt.Sprintf("add-%d", id), "widget", 3); err != nil {
				failCount.Add(1)
			}
			if err := svc.RemoveStock(ctx, fmt.Sprintf("remove-%d", id), "widget", 2); err != nil {
				failCount.Add(1)
			}
		}(i)
	}
	callers.Wait()

	assert.Equal(t, int32(0), failCount.Load())
	assert.Equal(t, 1050, svc.Quantity("widget"))
	assert.Len(t, svc.Transactions(), 51)

	svc.Close()
	wg.Wait()
}

func TestLowStock_ThroughService(t *testing.T) {
	svc, _, _ := newTestInventoryService(10)
	wg := drain(svc)

	svc.AddStock(context.Background(), "", "apple", 10)
	svc.AddStock(context.Background(), "", "banana", 2)

	assert.Equal(t, []string{"banana"}, svc.LowStock(DefaultLowStockThreshold))

	svc.Close()
	wg.Wait()
}

func TestAddStock_InvalidUTF8Item(t *testing.T) {
	svc, idem, _ := newTestInventoryService(10)
	defer svc.Close()

	_, err := svc.AddStock(context.Background(), "req-1", "caf\xe9", 1)

	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Empty(t, svc.Items())
	assert.Empty(t, idem.keys)
}

func TestRemoveStock_NotFoundReleasesRequestID(t *testing.T) {
	svc, _, _ := newTestInventoryService(10)
	wg := drain(svc)
	ctx := context.Background()

	err := svc.RemoveStock(ctx, "req-1", "apple", 1)
	require.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.AddStock(ctx, "", "apple", 3)
	require.NoError(t, err)

	// Retrying with the same ID applies once the item exists
	require.NoError(t, svc.RemoveStock(ctx, "req-1", "apple", 1))
	assert.Equal(t, 2, svc.Quantity("apple"))

	err = svc.RemoveStock(ctx, "req-1", "apple", 1)
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	svc.Close()
	wg.Wait()
}

func TestClose_ReleasesRequestID(t *testing.T) {
	svc, idem, _ := newTestInventoryService(10)
	svc.Close()

	_, err := svc.AddStock(context.Background(), "req-1", "apple", 1)
	assert.ErrorIs(t, err, ErrServiceClosed)
	assert.Empty(t, idem.keys)
}

func TestReadsDoNotWaitOnFullSaveQueue(t *testing.T) {
	svc, _, _ := newTestInventoryService(1)
	ctx := context.Background()

	_, err := svc.AddStock(ctx, "", "apple", 1)
	require.NoError(t, err)

	// The queue is full, so this add blocks until the snapshot is taken
	blocked := make(chan struct{})
	go func() {
		defer close(blocked)
		svc.AddStock(ctx, "", "apple", 1)
	}()

	read := make(chan int, 1)
	go func() {
		// Wait until the second add has been applied
		for svc.Quantity("apple") != 2 {
			time.Sleep(time.Millisecond)
		}
		read <- svc.Quantity("apple")
	}()

	select {
	case qty := <-read:
		assert.Equal(t, 2, qty)
	case <-time.After(time.Second):
		t.Fatal("reads blocked behind a full save queue")
	}

	first := <-svc.GetSaveQueue()
	<-blocked
	second := <-svc.GetSaveQueue()
	assert.Equal(t, []int64{1, 2}, []int64{first.Version, second.Version})

	svc.Close()
	_, open := <-svc.GetSaveQueue()
	assert.False(t, open)
}
