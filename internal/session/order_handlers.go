package session

import (
	"context"
	"fmt"
	"strings"

	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func orderHandlers() map[string]CommandHandler {
	handlers := map[string]CommandHandler{
		"ls":    handleOrderList,
		"place": handleOrderPlace,
	}
	for _, action := range []model.OrderAction{model.ActionCancel, model.ActionDispatch, model.ActionReceive, model.ActionApprove} {
		handlers[string(action)] = orderActionHandler(action)
	}
	return handlers
}

func consumerHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":     handleConsumerList,
		"add":    handleConsumerAdd,
		"update": handleConsumerUpdate,
		"delete": handleConsumerDelete,
	}
}

func orderTier(cmd model.Command) (model.OrderTier, error) {
	s, err := positional(cmd, 0, "tier")
	if err != nil {
		return "", err
	}
	tier := model.OrderTier(strings.ToLower(s))
	if tier.Route() == "" {
		return "", fmt.Errorf("unknown order tier %q (want primary, secondary or tertiary)", s)
	}
	return tier, nil
}

// orderParties names the sending and receiving side of an order
func orderParties(ctx context.Context, s *Session, tier model.OrderTier, o model.Order) (string, string) {
	dir := s.Data.Directory
	switch tier {
	case model.OrderPrimary:
		return "Factory", dir.PartnerName(ctx, model.TierSuperStockist, o.SSID)
	case model.OrderSecondary:
		return dir.PartnerName(ctx, model.TierDistributor, o.DistributorID), dir.PartnerName(ctx, model.TierRetailer, o.RetailerID)
	default:
		return dir.PartnerName(ctx, model.TierRetailer, o.RetailerID), dir.ConsumerName(ctx, o.ConsumerID)
	}
}

// handleOrderList handles 'order ls <tier>'
func handleOrderList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	tier, err := orderTier(cmd)
	if err != nil {
		return nil, err
	}
	orders, err := s.Data.Orders.List(ctx, tier)
	if err != nil {
		return nil, err
	}

	t := ui.NewTable(fmt.Sprintf("%s orders (%s)", tier, tier.Route()), "ID", "FROM", "TO", "PRODUCT", "QTY", "ACTIONS", "STATUS")
	t.StatusColumn = 6
	for _, o := range orders {
		from, to := orderParties(ctx, s, tier, o)
		actions := model.AllowedActions(tier, o)
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		t.Add(o.ID, from, to, s.Data.Directory.ProductName(ctx, o.ProductID), o.Quantity, strings.Join(names, ","), o.DisplayStatus())
	}
	return t, nil
}

// handleOrderPlace handles 'order place <tier> [from:<id>] to:<id> product_id:<id> quantity:<n>'
func handleOrderPlace(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	tier, err := orderTier(cmd)
	if err != nil {
		return nil, err
	}
	fields := cmd.Fields()
	var in model.OrderInput
	for key, dst := range map[string]*int64{"from": &in.FromID, "to": &in.ToID, "product_id": &in.ProductID, "quantity": &in.Quantity} {
		if *dst, err = fieldInt(fields, key); err != nil {
			return nil, err
		}
	}
	if err := s.Data.Orders.Place(ctx, tier, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Placed %s order for %d x %s", tier, in.Quantity, s.Data.Directory.ProductName(ctx, in.ProductID)), nil
}

// orderActionHandler handles 'order <action> <tier> <id>'
func orderActionHandler(action model.OrderAction) CommandHandler {
	return func(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
		tier, err := orderTier(cmd)
		if err != nil {
			return nil, err
		}
		id, err := positionalID(cmd, 1, "id")
		if err != nil {
			return nil, err
		}
		if err := s.Data.Orders.Apply(ctx, tier, id, action); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Order %d: %s done", id, action), nil
	}
}

func handleConsumerList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	consumers, err := s.Data.Orders.Consumers(ctx)
	if err != nil {
		return nil, err
	}
	t := ui.NewTable("Consumers", "ID", "NAME", "PHONE", "ADDRESS")
	for _, c := range consumers {
		t.Add(c.ID, c.Name, c.Phone, c.Address)
	}
	return t, nil
}

// handleConsumerAdd handles 'consumer add name:<name> [phone:..] [address:..]'
func handleConsumerAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	fields := cmd.Fields()
	in := model.ConsumerInput{Name: fields["name"], Phone: fields["phone"], Address: fields["address"]}
	if err := s.Data.Orders.CreateConsumer(ctx, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added consumer %q", in.Name), nil
}

func handleConsumerUpdate(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	patch, err := patchFields(cmd.Fields(), patchKinds{})
	if err != nil {
		return nil, err
	}
	if err := s.Data.Orders.UpdateConsumer(ctx, id, patch); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Updated consumer %d", id), nil
}

func handleConsumerDelete(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	if err := s.Data.Orders.DeleteConsumer(ctx, id); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Deleted consumer %d", id), nil
}
