package data

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// ProductManager manages the product master list
type ProductManager struct {
	products *Collection[model.Product]
	events   *event.EventManager
}

// NewProductManager creates a product manager for /products
func NewProductManager(client Client, events *event.EventManager, logger *log.Logger) *ProductManager {
	return &ProductManager{
		products: NewCollection[model.Product](client, "product", "/products", "product", logger),
		events:   events,
	}
}

// List fetches the products
func (pm *ProductManager) List(ctx context.Context) ([]model.Product, error) {
	return pm.products.Fetch(ctx)
}

// Create adds a product. The price is sent as a JSON number with its exact decimal digits.
func (pm *ProductManager) Create(ctx context.Context, in model.ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("product", "create", "name is required")
	}
	if in.Price.IsNegative() {
		return invalid("product", "create", "price must not be negative")
	}

	payload := map[string]any{
		"name":      in.Name,
		"price":     json.Number(in.Price.String()),
		"is_active": in.IsActive,
	}
	if in.SKU != "" {
		payload["sku"] = in.SKU
	}
	if in.Unit != "" {
		payload["unit"] = in.Unit
	}

	if err := pm.products.Create(ctx, payload); err != nil {
		return err
	}
	pm.events.Publish(event.Event{Type: event.ProductChanged})
	return nil
}

// Update patches the given fields of a product
func (pm *ProductManager) Update(ctx context.Context, id int64, patch map[string]any) error {
	if len(patch) == 0 {
		return invalid("product", "update", "no fields to update")
	}
	if err := pm.products.Update(ctx, id, patch); err != nil {
		return err
	}
	pm.events.Publish(event.Event{Type: event.ProductChanged})
	return nil
}

// Toggle flips is_active of a product and returns the new state
func (pm *ProductManager) Toggle(ctx context.Context, id int64) (bool, error) {
	product, ok, err := pm.products.Find(ctx, func(p model.Product) bool { return p.ID == id })
	if err != nil {
		return false, err
	}
	if !ok {
		return false, invalid("product", "toggle", fmt.Sprintf("no product with id %d", id))
	}
	next := !product.IsActive
	if err := pm.products.Update(ctx, id, map[string]any{"is_active": next}); err != nil {
		return false, err
	}
	pm.events.Publish(event.Event{Type: event.ProductChanged})
	return next, nil
}
