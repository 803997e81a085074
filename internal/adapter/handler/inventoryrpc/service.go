package inventoryrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "inventory.v1.Inventory"

	Inventory_AddStock_FullMethodName    = "/" + ServiceName + "/AddStock"
	Inventory_RemoveStock_FullMethodName = "/" + ServiceName + "/RemoveStock"
	Inventory_GetQuantity_FullMethodName = "/" + ServiceName + "/GetQuantity"
	Inventory_LowStock_FullMethodName    = "/" + ServiceName + "/LowStock"
)

// InventoryServer is the server API for the Inventory service.
// Implementations must embed UnimplementedInventoryServer.
type InventoryServer interface {
	AddStock(context.Context, *StockRequest) (*StockResponse, error)
	RemoveStock(context.Context, *StockRequest) (*StockResponse, error)
	GetQuantity(context.Context, *QuantityRequest) (*QuantityResponse, error)
	LowStock(context.Context, *LowStockRequest) (*LowStockResponse, error)
	mustEmbedUnimplementedInventoryServer()
}

type UnimplementedInventoryServer struct{}

func (UnimplementedInventoryServer) AddStock(context.Context, *StockRequest) (*StockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddStock not implemented")
}

func (UnimplementedInventoryServer) RemoveStock(context.Context, *StockRequest) (*StockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RemoveStock not implemented")
}

func (UnimplementedInventoryServer) GetQuantity(context.Context, *QuantityRequest) (*QuantityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetQuantity not implemented")
}

func (UnimplementedInventoryServer) LowStock(context.Context, *LowStockRequest) (*LowStockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method LowStock not implemented")
}

func (UnimplementedInventoryServer) mustEmbedUnimplementedInventoryServer() {}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&Inventory_ServiceDesc, srv)
}

func _Inventory_AddStock_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).AddStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Inventory_AddStock_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServer).AddStock(ctx, req.(*StockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Inventory_RemoveStock_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).RemoveStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Inventory_RemoveStock_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServer).RemoveStock(ctx, req.(*StockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Inventory_GetQuantity_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(QuantityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).GetQuantity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Inventory_GetQuantity_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServer).GetQuantity(ctx, req.(*QuantityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Inventory_LowStock_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(LowStockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InventoryServer).LowStock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Inventory_LowStock_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InventoryServer).LowStock(ctx, req.(*LowStockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Inventory_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddStock", Handler: _Inventory_AddStock_Handler},
		{MethodName: "RemoveStock", Handler: _Inventory_RemoveStock_Handler},
		{MethodName: "GetQuantity", Handler: _Inventory_GetQuantity_Handler},
		{MethodName: "LowStock", Handler: _Inventory_LowStock_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory.proto",
}

// InventoryClient is the client API for the Inventory service. Calls are sent
// with the JSON content-subtype.
type InventoryClient interface {
	AddStock(ctx context.Context, in *StockRequest, opts ...grpc.CallOption) (*StockResponse, error)
	RemoveStock(ctx context.Context, in *StockRequest, opts ...grpc.CallOption) (*StockResponse, error)
	GetQuantity(ctx context.Context, in *QuantityRequest, opts ...grpc.CallOption) (*QuantityResponse, error)
	LowStock(ctx context.Context, in *LowStockRequest, opts ...grpc.CallOption) (*LowStockResponse, error)
}

type inventoryClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryClient(cc grpc.ClientConnInterface) InventoryClient {
	return &inventoryClient{cc}
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
}

func (c *inventoryClient) AddStock(ctx context.Context, in *StockRequest, opts ...grpc.CallOption) (*StockResponse, error) {
	out := new(StockResponse)
	if err := c.cc.Invoke(ctx, Inventory_AddStock_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryClient) RemoveStock(ctx context.Context, in *StockRequest, opts ...grpc.CallOption) (*StockResponse, error) {
	out := new(StockResponse)
	if err := c.cc.Invoke(ctx, Inventory_RemoveStock_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryClient) GetQuantity(ctx context.Context, in *QuantityRequest, opts ...grpc.CallOption) (*QuantityResponse, error) {
	out := new(QuantityResponse)
	if err := c.cc.Invoke(ctx, Inventory_GetQuantity_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryClient) LowStock(ctx context.Context, in *LowStockRequest, opts ...grpc.CallOption) (*LowStockResponse, error) {
	out := new(LowStockResponse)
	if err := c.cc.Invoke(ctx, Inventory_LowStock_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
