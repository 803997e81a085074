package handler

import (
	"context"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/inventory-tracker/internal/adapter/handler/inventoryrpc"
	"github.com/rl1809/inventory-tracker/internal/core/service"
)

func newTestClient(t *testing.T, svc *service.InventoryService) inventoryrpc.InventoryClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	server := grpc.NewServer()
	inventoryrpc.RegisterInventoryServer(server, NewGRPCHandler(svc, 5))
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return inventoryrpc.NewInventoryClient(conn)
}

func TestGRPCHandler_AddAndRemove(t *testing.T) {
	client := newTestClient(t, newTestService(t))
	ctx := context.Background()

	resp, err := client.AddStock(ctx, &inventoryrpc.StockRequest{RequestId: "g-1", Item: "apple", Quantity: 5})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(15), resp.Quantity)
	assert.NotEmpty(t, resp.TransactionId)

	resp, err = client.RemoveStock(ctx, &inventoryrpc.StockRequest{Item: "apple", Quantity: 15})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(0), resp.Quantity)

	qty, err := client.GetQuantity(ctx, &inventoryrpc.QuantityRequest{Item: "apple"})
	require.NoError(t, err)
	assert.Equal(t, "apple", qty.Item)
	assert.Equal(t, int64(0), qty.Quantity)
}

func TestGRPCHandler_Failures(t *testing.T) {
	client := newTestClient(t, newTestService(t))
	ctx := context.Background()

	resp, err := client.AddStock(ctx, &inventoryrpc.StockRequest{RequestId: "dup", Item: "apple", Quantity: 1})
	require.NoError(t, err)
	require.True(t, resp.Success)

	tests := []struct {
		name    string
		call    func() (*inventoryrpc.StockResponse, error)
		message string
	}{
		{
			name: "duplicate",
			call: func() (*inventoryrpc.StockResponse, error) {
				return client.AddStock(ctx, &inventoryrpc.StockRequest{RequestId: "dup", Item: "apple", Quantity: 1})
			},
			message: "duplicate request",
		},
		{
			name: "missing item",
			call: func() (*inventoryrpc.StockResponse, error) {
				return client.RemoveStock(ctx, &inventoryrpc.StockRequest{Item: "orange", Quantity: 1})
			},
			message: "item not found",
		},
		{
			name: "empty item",
			call: func() (*inventoryrpc.StockResponse, error) {
				return client.AddStock(ctx, &inventoryrpc.StockRequest{Quantity: 1})
			},
			message: "item name is empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.call()
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestGRPCHandler_LowStock(t *testing.T) {
	client := newTestClient(t, newTestService(t))
	ctx := context.Background()

	resp, err := client.LowStock(ctx, &inventoryrpc.LowStockRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Threshold)
	assert.Equal(t, []string{"pear"}, resp.Items)

	threshold := int64(11)
	resp, err = client.LowStock(ctx, &inventoryrpc.LowStockRequest{Threshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "pear"}, resp.Items)
}

func TestGRPCHandler_QuantityBeyondInt32(t *testing.T) {
	svc := newTestService(t)
	router := NewHTTPHandler(svc, zap.NewNop().Sugar(), 5).Router(nil)
	client := newTestClient(t, svc)
	ctx := context.Background()

	rec := doRequest(router, http.MethodPost, "/api/stock/add", `{"item": "bolt", "quantity": 3000000000}`)
	require.Equal(t, http.StatusOK, rec.Code)

	qty, err := client.GetQuantity(ctx, &inventoryrpc.QuantityRequest{Item: "bolt"})
	require.NoError(t, err)
	assert.Equal(t, int64(3000000000), qty.Quantity)

	resp, err := client.AddStock(ctx, &inventoryrpc.StockRequest{Item: "bolt", Quantity: 2000000000})
	require.NoError(t, err)
	assert.Equal(t, int64(5000000000), resp.Quantity)
}
