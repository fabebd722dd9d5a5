package session

import (
	"context"
	"fmt"
	"strings"

	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func inventoryHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"factory": handleInventoryFactory,
		"ss":      handleInventorySS,
		"ledger":  handleInventoryLedger,
		"produce": handleInventoryProduce,
		"adjust":  handleInventoryAdjust,
	}
}

func financeHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ledger": handleFinanceLedger,
		"pay":    handleFinancePay,
	}
}

func stockTable(ctx context.Context, s *Session, title string, items []model.StockItem) *ui.Table {
	t := ui.NewTable(title, "PRODUCT", "NAME", "QUANTITY", "STATUS")
	t.StatusColumn = 3
	for _, item := range items {
		t.Add(item.ProductID, s.Data.Directory.ProductName(ctx, item.ProductID), item.Quantity, item.Status())
	}
	return t
}

// handleInventoryFactory handles 'inventory factory [id]'
func handleInventoryFactory(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	var id int64
	if len(cmd.Positional()) > 0 {
		var err error
		if id, err = positionalID(cmd, 0, "factory_id"); err != nil {
			return nil, err
		}
	}
	items, err := s.Data.Inventory.FactoryStock(ctx, id)
	if err != nil {
		return nil, err
	}
	return stockTable(ctx, s, "Factory stock", items), nil
}

// handleInventorySS handles 'inventory ss <ss_id>'
func handleInventorySS(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	id, err := positionalID(cmd, 0, "ss_id")
	if err != nil {
		return nil, err
	}
	items, err := s.Data.Inventory.SSStock(ctx, id)
	if err != nil {
		return nil, err
	}
	title := "Stock of " + s.Data.Directory.PartnerName(ctx, model.TierSuperStockist, id)
	return stockTable(ctx, s, title, items), nil
}

func handleInventoryLedger(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	logs, err := s.Data.Inventory.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	t := ui.NewTable("Stock movements", "ID", "DATE", "TYPE", "HOLDER", "PRODUCT", "QUANTITY", "REASON")
	for _, l := range logs {
		holder := fmt.Sprintf("%s %d", l.EntityType, l.EntityID)
		t.Add(l.ID, l.CreatedAt, l.Kind(), holder, s.Data.Directory.ProductName(ctx, l.ProductID), l.Quantity, l.Reason)
	}
	return t, nil
}

// handleInventoryProduce handles 'inventory produce product_id:<id> quantity:<n>'
func handleInventoryProduce(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	fields := cmd.Fields()
	productID, err := fieldInt(fields, "product_id")
	if err != nil {
		return nil, err
	}
	quantity, err := fieldInt(fields, "quantity")
	if err != nil {
		return nil, err
	}
	items, err := s.Data.Inventory.Produce(ctx, model.Production{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return stockTable(ctx, s, "Factory stock", items), nil
}

// handleInventoryAdjust handles 'inventory adjust <entity_type> <entity_id> product_id:<id> quantity:<n> reason:<text>'
func handleInventoryAdjust(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	entityType, err := positional(cmd, 0, "entity_type")
	if err != nil {
		return nil, err
	}
	entityID, err := positionalID(cmd, 1, "entity_id")
	if err != nil {
		return nil, err
	}
	fields := cmd.Fields()
	productID, err := fieldInt(fields, "product_id")
	if err != nil {
		return nil, err
	}
	quantity, err := fieldInt(fields, "quantity")
	if err != nil {
		return nil, err
	}

	adj := model.StockAdjustment{
		EntityType: strings.ToLower(entityType),
		EntityID:   entityID,
		ProductID:  productID,
		Quantity:   quantity,
		Reason:     fields["reason"],
	}
	if err := s.Data.Inventory.Adjust(ctx, adj); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Adjusted %s %d by %d of product %d", adj.EntityType, entityID, quantity, productID), nil
}

func partyArgs(cmd model.Command) (string, int64, error) {
	partyType, err := positional(cmd, 0, "party_type")
	if err != nil {
		return "", 0, err
	}
	partyType = strings.ToLower(partyType)
	if tier, ok := model.ParsePartnerTier(partyType); ok {
		partyType = tier.PartyType()
	}
	id, err := positionalID(cmd, 1, "party_id")
	if err != nil {
		return "", 0, err
	}
	return partyType, id, nil
}

func ledgerTable(ctx context.Context, s *Session, l *model.Ledger) *ui.Table {
	name := fmt.Sprintf("%s %d", l.PartyType, l.PartyID)
	for _, tier := range model.PartnerTiers {
		if tier.PartyType() == l.PartyType {
			name = s.Data.Directory.PartnerName(ctx, tier, l.PartyID)
		}
	}

	t := ui.NewTable("Ledger of "+name, "DATE", "ENTRY", "REFERENCE", "DEBIT", "CREDIT", "REMARKS")
	for _, e := range l.Transactions {
		debit, credit := ui.Money(e.Amount.Abs()), ""
		if e.IsCredit() {
			debit, credit = "", ui.Money(e.Amount.Abs())
		}
		t.Add(e.CreatedAt, e.Label(), e.ReferenceNumber, debit, credit, e.Remarks)
	}
	t.Footer = "Balance: " + ui.Balance(l.Balance)
	return t
}

// handleFinanceLedger handles 'finance ledger <party_type> <party_id>'
func handleFinanceLedger(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	partyType, id, err := partyArgs(cmd)
	if err != nil {
		return nil, err
	}
	ledger, err := s.Data.Finance.Ledger(ctx, partyType, id)
	if err != nil {
		return nil, err
	}
	return ledgerTable(ctx, s, ledger), nil
}

// handleFinancePay handles 'finance pay <party_type> <party_id> amount:<n> [mode:..] [ref:..] [remarks:..]'
func handleFinancePay(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	partyType, id, err := partyArgs(cmd)
	if err != nil {
		return nil, err
	}
	fields := cmd.Fields()
	amount, err := fieldDecimal(fields, "amount")
	if err != nil {
		return nil, err
	}

	p := model.Payment{
		PartyType:       partyType,
		PartyID:         id,
		Amount:          amount,
		PaymentMode:     strings.ToUpper(fields["mode"]),
		ReferenceNumber: fields["ref"],
		Remarks:         fields["remarks"],
	}
	if err := s.Data.Finance.ReceivePayment(ctx, p); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Recorded payment of %s from %s %d", ui.Money(amount), partyType, id)
	if open := s.Data.Finance.OpenLedger(); open != nil && open.PartyType == partyType && open.PartyID == id {
		msg += "; balance now " + ui.Balance(open.Balance)
	}
	return msg, nil
}
