package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArguments(t *testing.T) {
	cmd := Command{Scope: "partner", Operation: "add", Args: []string{"retailer", "name:Corner Store", "phone:98100", "--dry", "territory_id:12"}}

	assert.Equal(t, map[string]string{"name": "Corner Store", "phone": "98100", "territory_id": "12"}, cmd.Fields())
	assert.Equal(t, []string{"retailer"}, cmd.Positional())
	assert.True(t, cmd.HasFlag("dry"))
	assert.False(t, cmd.HasFlag("force"))
}

func TestRolePermissionsAcceptIDsOrObjects(t *testing.T) {
	var role Role
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"name":"Sales","permissions":[3,{"id":4,"name":"orders.read"}]}`), &role))
	assert.Equal(t, []int64{3, 4}, role.PermissionIDs())
	assert.Equal(t, "orders.read", role.Permissions[1].Name)

	var bad Role
	assert.Error(t, json.Unmarshal([]byte(`{"permissions":["x"]}`), &bad))
}

func TestAllowedActions(t *testing.T) {
	assert.Equal(t, []OrderAction{ActionDispatch, ActionCancel}, AllowedActions(OrderPrimary, Order{Status: "PENDING"}))
	assert.Equal(t, []OrderAction{ActionReceive, ActionCancel}, AllowedActions(OrderPrimary, Order{Status: "DISPATCHED"}))
	assert.Equal(t, []OrderAction{ActionApprove, ActionCancel}, AllowedActions(OrderTertiary, Order{Status: "pending"}))
	assert.Equal(t, []OrderAction{ActionCancel}, AllowedActions(OrderSecondary, Order{}))
	assert.Empty(t, AllowedActions(OrderPrimary, Order{Status: "RECEIVED"}))
	assert.Empty(t, AllowedActions(OrderTertiary, Order{Status: "CANCELLED"}))
}

func TestLedgerEntryDirection(t *testing.T) {
	assert.True(t, LedgerEntry{Type: "credit"}.IsCredit())
	assert.True(t, LedgerEntry{TransactionType: "PAYMENT"}.IsCredit())
	assert.True(t, LedgerEntry{Amount: decimal.RequireFromString("-10")}.IsCredit())
	assert.Equal(t, "INVOICE ISSUED", LedgerEntry{Amount: decimal.NewFromInt(500)}.Label())
	assert.Equal(t, "PAYMENT RECEIVED", LedgerEntry{TransactionType: "PAYMENT"}.Label())
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, "Optimal", StockItem{Quantity: 51}.Status())
	assert.Equal(t, "Low Stock", StockItem{Quantity: 50}.Status())
	assert.Equal(t, "Stockout", StockItem{Quantity: 0}.Status())
	assert.Equal(t, "TRANSFER", StockLog{}.Kind())
}

func TestPartnerTierAliases(t *testing.T) {
	tier, ok := ParsePartnerTier("ss")
	require.True(t, ok)
	assert.Equal(t, TierSuperStockist, tier)
	_, ok = ParsePartnerTier("wholesaler")
	assert.False(t, ok)
	assert.Equal(t, "secondary-sales", OrderSecondary.Route())
}

func TestNavigatorStateSelected(t *testing.T) {
	state := NavigatorState{Selection: []Crumb{{LevelKey: "zone", Node: HierarchyNode{ID: 7}}}}
	node, ok := state.Selected("zone")
	require.True(t, ok)
	assert.Equal(t, int64(7), node.ID)
	_, ok = state.Selected("state")
	assert.False(t, ok)
}
