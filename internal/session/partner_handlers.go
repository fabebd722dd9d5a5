package session

import (
	"context"
	"fmt"
	"strings"

	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func partnerHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":     handlePartnerList,
		"add":    handlePartnerAdd,
		"update": handlePartnerUpdate,
		"toggle": handlePartnerToggle,
	}
}

func productHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":     handleProductList,
		"add":    handleProductAdd,
		"update": handleProductUpdate,
		"toggle": handleProductToggle,
	}
}

var partnerPatchKinds = patchKinds{ints: []string{"territory_id"}, bools: []string{"is_active"}}

func partnerTier(cmd model.Command, i int) (model.PartnerTier, error) {
	s, err := positional(cmd, i, "tier")
	if err != nil {
		return "", err
	}
	tier, ok := model.ParsePartnerTier(strings.ToLower(s))
	if !ok {
		return "", fmt.Errorf("unknown partner tier %q (want ss, distributor or retailer)", s)
	}
	return tier, nil
}

// handlePartnerList handles 'partner ls [tier]'; without a tier every tier is listed
func handlePartnerList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	byTier := make(map[model.PartnerTier][]model.Partner)
	tiers := model.PartnerTiers

	if len(cmd.Positional()) > 0 {
		tier, err := partnerTier(cmd, 0)
		if err != nil {
			return nil, err
		}
		items, err := s.Data.Partners.List(ctx, tier)
		if err != nil {
			return nil, err
		}
		byTier[tier] = items
		tiers = []model.PartnerTier{tier}
	} else {
		all, err := s.Data.Partners.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		byTier = all
	}

	t := ui.NewTable("Partners", "TIER", "ID", "NAME", "CONTACT", "PHONE", "TERRITORY", "STATUS")
	t.StatusColumn = 6
	for _, tier := range tiers {
		for _, p := range byTier[tier] {
			t.Add(tier, p.ID, p.Name, p.ContactPerson, p.Phone, p.TerritoryID, ui.ActiveLabel(p.IsActive))
		}
	}
	return t, nil
}

// handlePartnerAdd handles 'partner add <tier> name:<name> territory_id:<id> [field:value]...'
func handlePartnerAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	tier, err := partnerTier(cmd, 0)
	if err != nil {
		return nil, err
	}
	fields := cmd.Fields()
	territory, err := fieldInt(fields, "territory_id")
	if err != nil {
		return nil, err
	}
	active, err := fieldBool(fields, "is_active", true)
	if err != nil {
		return nil, err
	}

	in := model.PartnerInput{
		Name:          fields["name"],
		ContactPerson: fields["contact_person"],
		Phone:         fields["phone"],
		Email:         fields["email"],
		TerritoryID:   territory,
		GSTIN:         fields["gstin"],
		IsActive:      active,
	}
	if err := s.Data.Partners.Create(ctx, tier, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added %s %q", tier, in.Name), nil
}

// handlePartnerUpdate handles 'partner update <tier> <id> field:value...'
func handlePartnerUpdate(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	tier, err := partnerTier(cmd, 0)
	if err != nil {
		return nil, err
	}
	id, err := positionalID(cmd, 1, "id")
	if err != nil {
		return nil, err
	}
	patch, err := patchFields(cmd.Fields(), partnerPatchKinds)
	if err != nil {
		return nil, err
	}
	if err := s.Data.Partners.Update(ctx, tier, id, patch); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Updated %s %d", tier, id), nil
}

// handlePartnerToggle handles 'partner toggle <tier> <id>'
func handlePartnerToggle(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	tier, err := partnerTier(cmd, 0)
	if err != nil {
		return nil, err
	}
	id, err := positionalID(cmd, 1, "id")
	if err != nil {
		return nil, err
	}
	active, err := s.Data.Partners.Toggle(ctx, tier, id)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%s %d is now %s", tier, id, ui.ActiveLabel(active)), nil
}

func handleProductList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	items, err := s.Data.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	t := ui.NewTable("Products", "ID", "NAME", "SKU", "UNIT", "PRICE", "STATUS")
	t.StatusColumn = 5
	for _, p := range items {
		t.Add(p.ID, p.Name, p.SKU, p.Unit, ui.Money(p.Price), ui.ActiveLabel(p.IsActive))
	}
	return t, nil
}

// handleProductAdd handles 'product add name:<name> price:<amount> [sku:..] [unit:..]'
func handleProductAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	fields := cmd.Fields()
	price, err := fieldDecimal(fields, "price")
	if err != nil {
		return nil, err
	}
	active, err := fieldBool(fields, "is_active", true)
	if err != nil {
		return nil, err
	}
	in := model.ProductInput{
		Name:     fields["name"],
		SKU:      fields["sku"],
		Unit:     fields["unit"],
		Price:    price,
		IsActive: active,
	}
	if err := s.Data.Products.Create(ctx, in); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Added product %q", in.Name), nil
}

func handleProductUpdate(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	patch, err := patchFields(cmd.Fields(), patchKinds{decimals: []string{"price"}, bools: []string{"is_active"}})
	if err != nil {
		return nil, err
	}
	if err := s.Data.Products.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Updated product %d", id), nil
}

func handleProductToggle(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "id")
	if err != nil {
		return nil, err
	}
	active, err := s.Data.Products.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("Product %d is now %s", id, ui.ActiveLabel(active)), nil
}
