package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/rl1809/inventory-tracker/internal/core/domain"
	"github.com/rl1809/inventory-tracker/internal/core/service"
	"github.com/rl1809/inventory-tracker/internal/port"
)

const maxBodyBytes = 1 << 20

type HTTPHandler struct {
	inventoryService *service.InventoryService
	logger           port.Logger
	defaultThreshold int
}

type StockHTTPResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	Quantity      int    `json:"quantity"`
}

type ItemHTTPResponse struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type LowStockHTTPResponse struct {
	Threshold int      `json:"threshold"`
	Items     []string `json:"items"`
}

type TransactionsHTTPResponse struct {
	Entries []string `json:"entries"`
}

func NewHTTPHandler(inventoryService *service.InventoryService, logger port.Logger, defaultThreshold int) *HTTPHandler {
	return &HTTPHandler{
		inventoryService: inventoryService,
		logger:           logger,
		defaultThreshold: defaultThreshold,
	}
}

// Router wires every route. metrics may be nil.
func (h *HTTPHandler) Router(metrics http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/items", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{item}", h.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/api/stock/add", h.AddStock).Methods(http.MethodPost)
	r.HandleFunc("/api/stock/remove", h.RemoveStock).Methods(http.MethodPost)
	r.HandleFunc("/api/low-stock", h.LowStock).Methods(http.MethodGet)
	r.HandleFunc("/api/transactions", h.Transactions).Methods(http.MethodGet)
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	r.Use(h.logMiddleware)
	return r
}

func (h *HTTPHandler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)
		h.logger.Infof("%s %s %s -> %d %s", r.Method, r.RequestURI, r.Proto, ww.Status(), http.StatusText(ww.Status()))
	})
}

func (h *HTTPHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	requestID, op, err := decodeStockRequest(r, domain.OperationAdd)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StockHTTPResponse{Success: false, Message: err.Error()})
		return
	}

	tx, err := h.inventoryService.AddStock(r.Context(), requestID, op.Item, op.Quantity)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StockHTTPResponse{
		Success:       true,
		Message:       "stock added",
		TransactionID: tx.ID,
		Quantity:      h.inventoryService.Quantity(op.Item),
	})
}

func (h *HTTPHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	requestID, op, err := decodeStockRequest(r, domain.OperationRemove)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StockHTTPResponse{Success: false, Message: err.Error()})
		return
	}

	if err := h.inventoryService.RemoveStock(r.Context(), requestID, op.Item, op.Quantity); err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StockHTTPResponse{
		Success:  true,
		Message:  "stock removed",
		Quantity: h.inventoryService.Quantity(op.Item),
	})
}

func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item := mux.Vars(r)["item"]
	writeJSON(w, http.StatusOK, ItemHTTPResponse{Item: item, Quantity: h.inventoryService.Quantity(item)})
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	levels := h.inventoryService.Items()
	items := make([]ItemHTTPResponse, 0, len(levels))
	for _, level := range levels {
		items = append(items, ItemHTTPResponse{Item: level.Item, Quantity: level.Quantity})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.defaultThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, StockHTTPResponse{Success: false, Message: "threshold must be an integer"})
			return
		}
		threshold = n
	}

	writeJSON(w, http.StatusOK, LowStockHTTPResponse{
		Threshold: threshold,
		Items:     h.inventoryService.LowStock(threshold),
	})
}

func (h *HTTPHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TransactionsHTTPResponse{Entries: h.inventoryService.Transactions()})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		status = http.StatusConflict
	case errors.Is(err, service.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyItem), errors.Is(err, domain.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrServiceClosed):
		status = http.StatusServiceUnavailable
	default:
		h.logger.Errorf("stock request failed: %v", err)
	}

	writeJSON(w, status, StockHTTPResponse{
		Success: false,
		Message: failureMessage(err),
	})
}

// decodeStockRequest validates a body like
// {"request_id": "r-1", "item": "apple", "quantity": 3}. The Idempotency-Key
// header is used when the body has no request_id.
func decodeStockRequest(r *http.Request, kind domain.OperationKind) (string, domain.Operation, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", domain.Operation{}, errors.New("invalid request body")
	}

	op, err := domain.ParseOperation(body, kind)
	if err != nil {
		return "", domain.Operation{}, err
	}

	var envelope struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", domain.Operation{}, errors.New("request_id must be a string")
	}
	if envelope.RequestID == "" {
		envelope.RequestID = r.Header.Get("Idempotency-Key")
	}

	return envelope.RequestID, op, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
