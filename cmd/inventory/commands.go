package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/core/service"
)

var lowThreshold int

var addCmd = &cobra.Command{
	Use:   "add ITEM QTY",
	Short: "Add QTY units of ITEM and save",
	Long: `Adds QTY units of ITEM. QTY may be negative; the entry is kept even
when the result drops to zero or below.`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove ITEM QTY",
	Short: "Remove QTY units of ITEM and save",
	Long: `Removes QTY units of ITEM. The item is dropped once nothing is left.
Removing an unknown item logs a warning and changes nothing.`,
	Args: cobra.ExactArgs(2),
	RunE: runRemove,
}

var getCmd = &cobra.Command{
	Use:   "get ITEM",
	Short: "Print the quantity of ITEM (0 when absent)",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var lowCmd = &cobra.Command{
	Use:   "low",
	Short: "Print items at or below the low-stock threshold",
	Args:  cobra.NoArgs,
	RunE:  runLow,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Log every item and its quantity",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withInventory loads the inventory, runs fn against it and saves the result
// when fn reports a change.
func withInventory(cmd *cobra.Command, fn func(inv *domain.Inventory, stock *service.StockService) (bool, error)) error {
	ctx := commandContext(cmd)
	b, err := openBackend(ctx, cfg, logger.Sugar())
	if err != nil {
		return err
	}
	defer b.Close()

	inv, err := b.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	changed, err := fn(inv, service.NewStockService(logger.Sugar()))
	if err != nil || !changed {
		return err
	}

	if err := b.repo.Save(ctx, inv); err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}

func parseQuantity(raw string) (int, error) {
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity must be an integer, got %q", domain.ErrInvalidOperation, raw)
	}
	return qty, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := domain.ValidateItem(args[0]); err != nil {
		return err
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	return withInventory(cmd, func(inv *domain.Inventory, stock *service.StockService) (bool, error) {
		tx, ok := stock.Add(inv, args[0], qty, nil)
		if !ok {
			return false, fmt.Errorf("%w: item must not be empty", domain.ErrInvalidOperation)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tx.String())
		return true, nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	if err := domain.ValidateItem(args[0]); err != nil {
		return err
	}
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	return withInventory(cmd, func(inv *domain.Inventory, stock *service.StockService) (bool, error) {
		if !stock.Remove(inv, args[0], qty) {
			return false, nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], stock.Quantity(inv, args[0]))
		return true, nil
	})
}

func runGet(cmd *cobra.Command, args []string) error {
	return withInventory(cmd, func(inv *domain.Inventory, stock *service.StockService) (bool, error) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], stock.Quantity(inv, args[0]))
		return false, nil
	})
}

func runLow(cmd *cobra.Command, args []string) error {
	threshold := cfg.LowStockThreshold
	if cmd.Flags().Changed("threshold") {
		threshold = lowThreshold
	}

	return withInventory(cmd, func(inv *domain.Inventory, stock *service.StockService) (bool, error) {
		for _, item := range stock.LowStock(inv, threshold) {
			fmt.Fprintln(cmd.OutOrStdout(), item)
		}
		return false, nil
	})
}

func runReport(cmd *cobra.Command, args []string) error {
	return withInventory(cmd, func(inv *domain.Inventory, stock *service.StockService) (bool, error) {
		stock.Report(inv)
		return false, nil
	})
}
