package handler

import (
	"context"
	"errors"

	"github.com/rl1809/inventory-tracker/internal/adapter/handler/inventoryrpc"
	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/core/service"
)

type GRPCHandler struct {
	inventoryrpc.UnimplementedInventoryServer
	inventoryService *service.InventoryService
	defaultThreshold int
}

func NewGRPCHandler(inventoryService *service.InventoryService, defaultThreshold int) *GRPCHandler {
	return &GRPCHandler{inventoryService: inventoryService, defaultThreshold: defaultThreshold}
}

func (h *GRPCHandler) AddStock(ctx context.Context, req *inventoryrpc.StockRequest) (*inventoryrpc.StockResponse, error) {
	tx, err := h.inventoryService.AddStock(ctx, req.GetRequestId(), req.GetItem(), int(req.GetQuantity()))
	if err != nil {
		return &inventoryrpc.StockResponse{
			Success: false,
			Message: failureMessage(err),
		}, nil
	}

	return &inventoryrpc.StockResponse{
		Success:       true,
		Message:       "stock added",
		TransactionId: tx.ID,
		Quantity:      int64(h.inventoryService.Quantity(req.GetItem())),
	}, nil
}

func (h *GRPCHandler) RemoveStock(ctx context.Context, req *inventoryrpc.StockRequest) (*inventoryrpc.StockResponse, error) {
	err := h.inventoryService.RemoveStock(ctx, req.GetRequestId(), req.GetItem(), int(req.GetQuantity()))
	if err != nil {
		return &inventoryrpc.StockResponse{
			Success: false,
			Message: failureMessage(err),
		}, nil
	}

	return &inventoryrpc.StockResponse{
		Success:  true,
		Message:  "stock removed",
		Quantity: int64(h.inventoryService.Quantity(req.GetItem())),
	}, nil
}

func (h *GRPCHandler) GetQuantity(ctx context.Context, req *inventoryrpc.QuantityRequest) (*inventoryrpc.QuantityResponse, error) {
	return &inventoryrpc.QuantityResponse{
		Item:     req.GetItem(),
		Quantity: int64(h.inventoryService.Quantity(req.GetItem())),
	}, nil
}

func (h *GRPCHandler) LowStock(ctx context.Context, req *inventoryrpc.LowStockRequest) (*inventoryrpc.LowStockResponse, error) {
	threshold := h.defaultThreshold
	if req.Threshold != nil {
		threshold = int(*req.Threshold)
	}

	return &inventoryrpc.LowStockResponse{
		Threshold: int64(threshold),
		Items:     h.inventoryService.LowStock(threshold),
	}, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		return "duplicate request"
	case errors.Is(err, service.ErrItemNotFound):
		return "item not found"
	case errors.Is(err, service.ErrEmptyItem):
		return "item name is empty"
	case errors.Is(err, service.ErrServiceClosed):
		return "service unavailable"
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid item name"
	default:
		return "internal error"
	}
}
