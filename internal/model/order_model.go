package model

import "strings"

// OrderTier identifies a leg of the distribution chain.
type OrderTier string

const (
	OrderPrimary   OrderTier = "primary"
	OrderSecondary OrderTier = "secondary"
	OrderTertiary  OrderTier = "tertiary"
)

// OrderTiers lists the tiers in chain order
var OrderTiers = []OrderTier{OrderPrimary, OrderSecondary, OrderTertiary}

// Route returns the collection route of the tier
func (t OrderTier) Route() string {
	switch t {
	case OrderPrimary:
		return "primary-orders"
	case OrderSecondary:
		return "secondary-sales"
	case OrderTertiary:
		return "tertiary-sales"
	default:
		return ""
	}
}

// OrderAction is a status transition applied to an order.
type OrderAction string

const (
	ActionCancel   OrderAction = "cancel"
	ActionDispatch OrderAction = "dispatch"
	ActionReceive  OrderAction = "receive"
	ActionApprove  OrderAction = "approve"
)

// Order statuses reported by the server
const (
	StatusPending    = "PENDING"
	StatusDispatched = "DISPATCHED"
	StatusReceived   = "RECEIVED"
	StatusApproved   = "APPROVED"
	StatusCancelled  = "CANCELLED"
)

// Order is a primary, secondary or tertiary order row.
type Order struct {
	ID            int64  `json:"id"`
	SSID          int64  `json:"ss_id,omitempty"`
	DistributorID int64  `json:"distributor_id,omitempty"`
	RetailerID    int64  `json:"retailer_id,omitempty"`
	ConsumerID    int64  `json:"consumer_id,omitempty"`
	ProductID     int64  `json:"product_id"`
	Quantity      int64  `json:"quantity"`
	Status        string `json:"status,omitempty"`
}

// DisplayStatus returns the status, LOGGED when the server sent none
func (o Order) DisplayStatus() string {
	if o.Status == "" {
		return "LOGGED"
	}
	return strings.ToUpper(o.Status)
}

// AllowedActions lists the transitions offered for an order in tier.
// Closed orders (cancelled, received, approved) offer none.
func AllowedActions(tier OrderTier, o Order) []OrderAction {
	status := o.DisplayStatus()
	switch status {
	case StatusCancelled, StatusReceived, StatusApproved:
		return nil
	}

	var actions []OrderAction
	switch {
	case tier == OrderPrimary && status == StatusPending:
		actions = append(actions, ActionDispatch)
	case tier == OrderPrimary && status == StatusDispatched:
		actions = append(actions, ActionReceive)
	case tier == OrderTertiary && status == StatusPending:
		actions = append(actions, ActionApprove)
	}
	return append(actions, ActionCancel)
}

// OrderInput is the generic order form; FromID and ToID are mapped per tier.
// Primary orders have no From (the factory is implied).
type OrderInput struct {
	FromID    int64
	ToID      int64
	ProductID int64
	Quantity  int64
}

// Consumer is an end customer registered by a retailer.
type Consumer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ConsumerInput is the create form for a consumer.
type ConsumerInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
