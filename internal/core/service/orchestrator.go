package service

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/port"
)

// Plan describes a single orchestrated run.
type Plan struct {
	// Script is a JSON array of operations, see domain.ParseScript.
	Script            []byte
	QueryItem         string
	LowStockThreshold int
}

type RunResult struct {
	Inventory *domain.Inventory
	Log       *domain.TransactionLog
}

// Orchestrator runs load, mutate, query, save and report in that order.
// There is no retry or rollback.
type Orchestrator struct {
	repo   port.InventoryRepository
	stock  *StockService
	logger port.Logger
}

func NewOrchestrator(repo port.InventoryRepository, stock *StockService, logger port.Logger) *Orchestrator {
	return &Orchestrator{repo: repo, stock: stock, logger: logger}
}

// Run executes plan. Invalid script entries are logged and skipped; load and
// save failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (*RunResult, error) {
	entries, err := domain.ParseScript(plan.Script)
	if err != nil {
		return nil, err
	}

	inv, err := o.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	log := domain.NewTransactionLog()
	for _, entry := range entries {
		if entry.Err != nil {
			o.logger.Errorf("Error %s item: %v", verb(entry.Kind), entry.Err)
			continue
		}
		o.stock.Apply(inv, entry.Operation, log)
	}

	if plan.QueryItem != "" {
		o.logger.Infof("%s stock: %d", capitalize(plan.QueryItem), o.stock.Quantity(inv, plan.QueryItem))
	}
	o.logger.Infof("Low items: %q", o.stock.LowStock(inv, plan.LowStockThreshold))

	if err := o.repo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save inventory: %w", err)
	}

	o.stock.Report(inv)

	return &RunResult{Inventory: inv, Log: log}, nil
}

func verb(kind domain.OperationKind) string {
	switch kind {
	case domain.OperationAdd:
		return "adding"
	case domain.OperationRemove:
		return "removing"
	default:
		return "applying"
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
