package data

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// actionMethods maps each order transition to the verb the server expects
var actionMethods = map[model.OrderAction]string{
	model.ActionCancel:   http.MethodPut,
	model.ActionDispatch: http.MethodPost,
	model.ActionReceive:  http.MethodPost,
	model.ActionApprove:  http.MethodPatch,
}

// OrderManager manages orders of the three chain tiers and the consumer register
type OrderManager struct {
	client    Client
	tiers     map[model.OrderTier]*Collection[model.Order]
	consumers *Collection[model.Consumer]
	events    *event.EventManager
}

// NewOrderManager creates an order manager
func NewOrderManager(client Client, events *event.EventManager, logger *log.Logger) *OrderManager {
	tiers := make(map[model.OrderTier]*Collection[model.Order], len(model.OrderTiers))
	for _, tier := range model.OrderTiers {
		path := "/" + tier.Route() + "/"
		tiers[tier] = NewCollection[model.Order](client, string(tier)+" order", path, "", logger)
	}
	return &OrderManager{
		client:    client,
		tiers:     tiers,
		consumers: NewCollection[model.Consumer](client, "consumer", "/tertiary-sales/consumers", "", logger),
		events:    events,
	}
}

func (om *OrderManager) collection(tier model.OrderTier) (*Collection[model.Order], error) {
	c, ok := om.tiers[tier]
	if !ok {
		return nil, fmt.Errorf("unknown order tier %q", tier)
	}
	return c, nil
}

// List fetches the orders of tier. A failed fetch yields an empty list.
func (om *OrderManager) List(ctx context.Context, tier model.OrderTier) ([]model.Order, error) {
	c, err := om.collection(tier)
	if err != nil {
		return nil, err
	}
	return c.FetchOrEmpty(ctx), nil
}

// orderPayload maps the generic form onto the fields of tier
func orderPayload(tier model.OrderTier, in model.OrderInput) (map[string]any, error) {
	if in.ProductID <= 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	payload := map[string]any{"product_id": in.ProductID, "quantity": in.Quantity}

	switch tier {
	case model.OrderPrimary:
		if in.ToID <= 0 {
			return nil, fmt.Errorf("ss_id is required")
		}
		payload["ss_id"] = in.ToID
	case model.OrderSecondary:
		if in.FromID <= 0 || in.ToID <= 0 {
			return nil, fmt.Errorf("distributor_id and retailer_id are required")
		}
		payload["distributor_id"] = in.FromID
		payload["retailer_id"] = in.ToID
	case model.OrderTertiary:
		if in.FromID <= 0 || in.ToID <= 0 {
			return nil, fmt.Errorf("retailer_id and consumer_id are required")
		}
		payload["retailer_id"] = in.FromID
		payload["consumer_id"] = in.ToID
	default:
		return nil, fmt.Errorf("unknown order tier %q", tier)
	}
	return payload, nil
}

// Place creates an order in tier
func (om *OrderManager) Place(ctx context.Context, tier model.OrderTier, in model.OrderInput) error {
	c, err := om.collection(tier)
	if err != nil {
		return err
	}
	payload, err := orderPayload(tier, in)
	if err != nil {
		return invalid(string(tier)+" order", "place", err.Error())
	}
	return c.Mutate(ctx, "place", func(ctx context.Context) error {
		return c.client.Post(ctx, c.Path(), payload, nil)
	})
}

// Apply performs a status transition after checking that the order offers it
func (om *OrderManager) Apply(ctx context.Context, tier model.OrderTier, id int64, action model.OrderAction) error {
	c, err := om.collection(tier)
	if err != nil {
		return err
	}
	method, ok := actionMethods[action]
	if !ok {
		return fmt.Errorf("unknown order action %q", action)
	}

	order, found, err := c.Find(ctx, func(o model.Order) bool { return o.ID == id })
	if err != nil {
		return err
	}
	if !found {
		return invalid(string(tier)+" order", string(action), fmt.Sprintf("no order with id %d", id))
	}
	allowed := model.AllowedActions(tier, order)
	if !slices.Contains(allowed, action) {
		return invalid(string(tier)+" order", string(action),
			fmt.Sprintf("not allowed while %s", strings.ToLower(order.DisplayStatus())))
	}

	path := c.ItemPath(id, string(action))
	return c.Mutate(ctx, string(action), func(ctx context.Context) error {
		switch method {
		case http.MethodPut:
			return om.client.Put(ctx, path, nil, nil)
		case http.MethodPatch:
			return om.client.Patch(ctx, path, nil, nil)
		default:
			return om.client.Post(ctx, path, nil, nil)
		}
	})
}

// Consumers fetches the consumer register
func (om *OrderManager) Consumers(ctx context.Context) ([]model.Consumer, error) {
	return om.consumers.Fetch(ctx)
}

// CreateConsumer registers a consumer
func (om *OrderManager) CreateConsumer(ctx context.Context, in model.ConsumerInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("consumer", "create", "name is required")
	}
	if err := om.consumers.Create(ctx, in); err != nil {
		return err
	}
	om.events.Publish(event.Event{Type: event.ConsumerChanged})
	return nil
}

// UpdateConsumer patches a consumer
func (om *OrderManager) UpdateConsumer(ctx context.Context, id int64, patch map[string]any) error {
	if len(patch) == 0 {
		return invalid("consumer", "update", "no fields to update")
	}
	if err := om.consumers.Update(ctx, id, patch); err != nil {
		return err
	}
	om.events.Publish(event.Event{Type: event.ConsumerChanged})
	return nil
}

// DeleteConsumer removes a consumer
func (om *OrderManager) DeleteConsumer(ctx context.Context, id int64) error {
	if err := om.consumers.Remove(ctx, id); err != nil {
		return err
	}
	om.events.Publish(event.Event{Type: event.ConsumerChanged})
	return nil
}
