package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrItemNotFound     = errors.New("item not found")
	ErrEmptyItem        = errors.New("item name is empty")
	ErrServiceClosed    = errors.New("inventory service closed")
)

const idempotencyKeyPrefix = "inventory:request:"

// InventoryService shares one inventory between concurrent callers. Mutations
// are serialized by a mutex and every applied mutation queues a versioned
// snapshot for PersistLoop.
type InventoryService struct {
	mu        sync.RWMutex
	inv       *domain.Inventory
	log       *domain.TransactionLog
	stock     *StockService
	idem      port.IdempotencyStore
	metrics   port.MetricsRecorder
	saveQueue chan *domain.Inventory
	sends     sync.WaitGroup
	closed    bool
}

func NewInventoryService(inv *domain.Inventory, stock *StockService, idem port.IdempotencyStore, metrics port.MetricsRecorder, queueSize int) *InventoryService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	metrics.SetItemCount(inv.Len())
	return &InventoryService{
		inv:       inv,
		log:       domain.NewTransactionLog(),
		stock:     stock,
		idem:      idem,
		metrics:   metrics,
		saveQueue: make(chan *domain.Inventory, queueSize),
	}
}

// AddStock adds qty units of item. A non-empty requestID makes the call
// idempotent: a repeat returns ErrDuplicateRequest without touching stock.
// A call that fails after claiming requestID gives the claim back, so it can
// be retried under the same ID.
func (s *InventoryService) AddStock(ctx context.Context, requestID, item string, qty int) (domain.Transaction, error) {
	if item == "" {
		return domain.Transaction{}, ErrEmptyItem
	}
	if err := domain.ValidateItem(item); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.claim(ctx, requestID); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.release(ctx, requestID)
		return domain.Transaction{}, ErrServiceClosed
	}

	tx, _ := s.stock.Add(s.inv, item, qty, s.log)
	s.metrics.RecordMutation(string(domain.OperationAdd), qty)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.send(snapshot)
	return tx, nil
}

// RemoveStock removes qty units of item, deleting it once nothing is left.
func (s *InventoryService) RemoveStock(ctx context.Context, requestID, item string, qty int) error {
	if item == "" {
		return ErrEmptyItem
	}
	if err := domain.ValidateItem(item); err != nil {
		return err
	}
	if err := s.claim(ctx, requestID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.release(ctx, requestID)
		return ErrServiceClosed
	}

	if !s.stock.Remove(s.inv, item, qty) {
		s.metrics.RecordMissingItem()
		s.mu.Unlock()
		s.release(ctx, requestID)
		return ErrItemNotFound
	}
	s.metrics.RecordMutation(string(domain.OperationRemove), qty)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.send(snapshot)
	return nil
}

func (s *InventoryService) Quantity(item string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock.Quantity(s.inv, item)
}

func (s *InventoryService) LowStock(threshold int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock.LowStock(s.inv, threshold)
}

func (s *InventoryService) Items() []domain.StockLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.Items()
}

// Transactions returns the additions made through this service since start.
func (s *InventoryService) Transactions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Entries()
}

// Report writes the current inventory to the logger.
func (s *InventoryService) Report() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.stock.Report(s.inv)
}

func (s *InventoryService) GetSaveQueue() <-chan *domain.Inventory {
	return s.saveQueue
}

// Close stops accepting mutations, waits for queued snapshots to be handed
// off and closes the save queue. It is safe to call more than once.
func (s *InventoryService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.sends.Wait()
	close(s.saveQueue)
}

func (s *InventoryService) claim(ctx context.Context, requestID string) error {
	if requestID == "" || s.idem == nil {
		return nil
	}

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrServiceClosed
	}

	ok, err := s.idem.SetIdempotency(ctx, idempotencyKeyPrefix+requestID)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return ErrDuplicateRequest
	}
	return nil
}

// release hands a claim back after the mutation it guarded did not happen.
func (s *InventoryService) release(ctx context.Context, requestID string) {
	if requestID == "" || s.idem == nil {
		return
	}
	_ = s.idem.ReleaseIdempotency(ctx, idempotencyKeyPrefix+requestID)
}

// snapshot bumps the version and clones the inventory. It must be called with
// mu held; the clone is sent with send once mu is released.
func (s *InventoryService) snapshot() *domain.Inventory {
	s.inv.Version++
	s.metrics.SetItemCount(s.inv.Len())
	s.sends.Add(1)
	return s.inv.Clone()
}

// send queues a snapshot for PersistLoop. It may block while the queue is
// full; readers are not held up because mu is already released.
func (s *InventoryService) send(snapshot *domain.Inventory) {
	defer s.sends.Done()
	s.saveQueue <- snapshot
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(string, int) {}
func (noopMetrics) RecordMissingItem()         {}
func (noopMetrics) SetItemCount(int)           {}
