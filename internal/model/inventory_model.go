package model

// StockItem is one product balance held by a factory or super-stockist.
type StockItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Stock level thresholds
const (
	StockOptimalAbove = 50
)

// Status classifies the balance as Optimal, Low Stock or Stockout
func (s StockItem) Status() string {
	switch {
	case s.Quantity > StockOptimalAbove:
		return "Optimal"
	case s.Quantity > 0:
		return "Low Stock"
	default:
		return "Stockout"
	}
}

// StockLog is one movement in the inventory ledger.
type StockLog struct {
	ID              int64  `json:"id"`
	TransactionType string `json:"transaction_type,omitempty"`
	EntityType      string `json:"entity_type"`
	EntityID        int64  `json:"entity_id"`
	ProductID       int64  `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// Kind returns the transaction type, TRANSFER when the server sent none
func (l StockLog) Kind() string {
	if l.TransactionType == "" {
		return "TRANSFER"
	}
	return l.TransactionType
}

// StockAdjustment is the adjust form; EntityType is factory, ss, distributor or retailer.
type StockAdjustment struct {
	EntityType string `json:"-"`
	EntityID   int64  `json:"-"`
	ProductID  int64  `json:"product_id"`
	Quantity   int64  `json:"quantity"`
	Reason     string `json:"reason"`
}

// Production is the factory production form.
type Production struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
