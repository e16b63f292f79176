package dto

// RecordStockChangeRequest body para POST /api/items/:id/stock-changes.
type RecordStockChangeRequest struct {
	StockChange NumberText `json:"stock_change"` // positivo suma, negativo resta
	Reason      string     `json:"reason"`
}

// StockBatchRequest body para POST /api/items/stock.
type StockBatchRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// StockResponse stock actual de un ítem.
type StockResponse struct {
	ItemID       string `json:"item_id"`
	CurrentStock int64  `json:"current_stock"`
}

// StockBatchResponse stock actual por ítem.
type StockBatchResponse struct {
	Stock map[string]int64 `json:"stock"`
}

// StockChangeResponse salida de un registro del ledger.
type StockChangeResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item"`
	Delta    int64  `json:"stock_change"`
	Reason   string `json:"reason"`
	UserID   string `json:"user"`
	UserName string `json:"user_name"`
	Created  string `json:"created"`
}

// StockHistoryResponse historial de un ítem, el más reciente primero.
type StockHistoryResponse struct {
	ItemID  string                `json:"item_id"`
	Changes []StockChangeResponse `json:"changes"`
}
