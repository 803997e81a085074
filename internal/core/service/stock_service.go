package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

const DefaultLowStockThreshold = 5

// StockService implements the store operations. It holds no inventory of its
// own; every call receives the store it acts on.
type StockService struct {
	logger port.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*StockService)

func WithClock(now func() time.Time) Option {
	return func(s *StockService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *StockService) { s.newID = newID }
}

func NewStockService(logger port.Logger, opts ...Option) *StockService {
	s := &StockService{
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add increases item by qty and records the addition in log. qty may be
// negative and the result is kept even when it drops to zero or below; only
// Remove prunes entries. An empty item is a no-op and reports false. A nil log
// is allowed.
func (s *StockService) Add(inv *domain.Inventory, item string, qty int, log *domain.TransactionLog) (domain.Transaction, bool) {
	if item == "" {
		return domain.Transaction{}, false
	}

	current, _ := inv.Get(item)
	inv.Set(item, current+qty)

	tx := domain.Transaction{
		ID:        s.newID(),
		Item:      item,
		Quantity:  qty,
		CreatedAt: s.now(),
	}
	if log != nil {
		log.Append(tx)
	}
	return tx, true
}

// Remove decreases item by qty and deletes it once it reaches zero or below.
// A missing item is logged and reported as false; the store is left untouched.
func (s *StockService) Remove(inv *domain.Inventory, item string, qty int) bool {
	current, ok := inv.Get(item)
	if !ok {
		s.logger.Warnf("Item '%s' not found, cannot remove.", item)
		return false
	}

	if remaining := current - qty; remaining <= 0 {
		inv.Delete(item)
	} else {
		inv.Set(item, remaining)
	}
	return true
}

// Apply dispatches a decoded operation to Add or Remove.
func (s *StockService) Apply(inv *domain.Inventory, op domain.Operation, log *domain.TransactionLog) {
	switch op.Kind {
	case domain.OperationAdd:
		s.Add(inv, op.Item, op.Quantity, log)
	case domain.OperationRemove:
		s.Remove(inv, op.Item, op.Quantity)
	}
}

func (s *StockService) Quantity(inv *domain.Inventory, item string) int {
	qty, _ := inv.Get(item)
	return qty
}

// LowStock lists items at or below threshold in insertion order.
func (s *StockService) LowStock(inv *domain.Inventory, threshold int) []string {
	result := []string{}
	for _, level := range inv.Items() {
		if level.Quantity <= threshold {
			result = append(result, level.Item)
		}
	}
	return result
}

func (s *StockService) Report(inv *domain.Inventory) {
	s.logger.Infof("--- Items Report ---")
	for _, level := range inv.Items() {
		s.logger.Infof("%s: %d", level.Item, level.Quantity)
	}
	s.logger.Infof("--------------------")
}
