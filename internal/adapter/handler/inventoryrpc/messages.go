package inventoryrpc

type StockRequest struct {
	RequestId string `json:"request_id,omitempty"`
	Item      string `json:"item"`
	Quantity  int64  `json:"quantity"`
}

func (x *StockRequest) GetRequestId() string {
	if x != nil {
		return x.RequestId
	}
	return ""
}

func (x *StockRequest) GetItem() string {
	if x != nil {
		return x.Item
	}
	return ""
}

func (x *StockRequest) GetQuantity() int64 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

type StockResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionId string `json:"transaction_id,omitempty"`
	Quantity      int64  `json:"quantity"`
}

type QuantityRequest struct {
	Item string `json:"item"`
}

func (x *QuantityRequest) GetItem() string {
	if x != nil {
		return x.Item
	}
	return ""
}

type QuantityResponse struct {
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
}

// LowStockRequest leaves Threshold nil to ask for the server default.
type LowStockRequest struct {
	Threshold *int64 `json:"threshold,omitempty"`
}

type LowStockResponse struct {
	Threshold int64    `json:"threshold"`
	Items     []string `json:"items"`
}
