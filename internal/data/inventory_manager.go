package data

import (
	"context"
	"fmt"

	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// DefaultFactoryID is the factory shown when none is given
const DefaultFactoryID = 1

// adjustableEntities are the holders whose stock can be corrected by hand
var adjustableEntities = map[string]bool{
	"factory":     true,
	"ss":          true,
	"distributor": true,
	"retailer":    true,
}

// InventoryManager reads stock balances and records production and adjustments
type InventoryManager struct {
	client Client
	logs   *Collection[model.StockLog]
	logger *log.Logger
}

// NewInventoryManager creates an inventory manager for the /inventory endpoints
func NewInventoryManager(client Client, logger *log.Logger) *InventoryManager {
	return &InventoryManager{
		client: client,
		logs:   NewCollection[model.StockLog](client, "stock log", "/inventory/ledger", "", logger),
		logger: logger,
	}
}

func (im *InventoryManager) stock(ctx context.Context, holder string, id int64) ([]model.StockItem, error) {
	var items []model.StockItem
	path := fmt.Sprintf("/inventory/%s/%d", holder, id)
	if err := im.client.GetMappedList(ctx, path, "stock", &items); err != nil {
		return nil, fmt.Errorf("failed to load %s stock: %w", holder, err)
	}
	if items == nil {
		items = []model.StockItem{}
	}
	return items, nil
}

// FactoryStock returns the balances of a factory; id 0 means the default factory
func (im *InventoryManager) FactoryStock(ctx context.Context, id int64) ([]model.StockItem, error) {
	if id <= 0 {
		id = DefaultFactoryID
	}
	return im.stock(ctx, "factory", id)
}

// SSStock returns the balances held by a super-stockist
func (im *InventoryManager) SSStock(ctx context.Context, ssID int64) ([]model.StockItem, error) {
	if ssID <= 0 {
		return nil, fmt.Errorf("super-stockist id is required")
	}
	return im.stock(ctx, "ss", ssID)
}

// Ledger fetches the stock movement log
func (im *InventoryManager) Ledger(ctx context.Context) ([]model.StockLog, error) {
	return im.logs.Fetch(ctx)
}

// Produce records factory production and returns the refreshed factory stock
func (im *InventoryManager) Produce(ctx context.Context, in model.Production) ([]model.StockItem, error) {
	if in.ProductID <= 0 {
		return nil, invalid("production", "record", "product_id is required")
	}
	if in.Quantity <= 0 {
		return nil, invalid("production", "record", "quantity must be positive")
	}

	err := im.logs.Mutate(ctx, "record", func(ctx context.Context) error {
		return im.client.Post(ctx, "/inventory/factory/produce", in, nil)
	})
	if err != nil {
		return nil, err
	}
	return im.FactoryStock(ctx, DefaultFactoryID)
}

// Adjust corrects the balance of one product held by an entity
func (im *InventoryManager) Adjust(ctx context.Context, in model.StockAdjustment) error {
	switch {
	case !adjustableEntities[in.EntityType]:
		return invalid("stock", "adjust", fmt.Sprintf("unknown entity type %q", in.EntityType))
	case in.EntityID <= 0:
		return invalid("stock", "adjust", "entity id is required")
	case in.ProductID <= 0:
		return invalid("stock", "adjust", "product_id is required")
	case in.Quantity == 0:
		return invalid("stock", "adjust", "quantity must not be zero")
	}

	path := fmt.Sprintf("/inventory/%s/%d/adjust", in.EntityType, in.EntityID)
	return im.logs.Mutate(ctx, "adjust", func(ctx context.Context) error {
		return im.client.Post(ctx, path, in, nil)
	})
}
