package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ohler55/ojg/jp"
	"github.com/shopspring/decimal"

	"hompulse/console/internal/api"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// DefaultPaymentMode is used when a payment names no mode
const DefaultPaymentMode = "UPI"

var balancePaths = []jp.Expr{
	jp.MustParseString("$.current_balance"),
	jp.MustParseString("$.outstanding_balance"),
}

// FinanceManager reads partner ledgers and records payments
type FinanceManager struct {
	client Client
	logger *log.Logger

	mu   sync.Mutex
	open *model.Ledger
}

// NewFinanceManager creates a finance manager for the /finance endpoints
func NewFinanceManager(client Client, logger *log.Logger) *FinanceManager {
	return &FinanceManager{client: client, logger: logger}
}

func validParty(partyType string, partyID int64) error {
	if !slices.Contains(model.PartyTypes, partyType) {
		return fmt.Errorf("unknown party type %q (want one of %s)", partyType, strings.Join(model.PartyTypes, ", "))
	}
	if partyID <= 0 {
		return fmt.Errorf("party id is required")
	}
	return nil
}

// Ledger fetches a party ledger and makes it the open ledger
func (fm *FinanceManager) Ledger(ctx context.Context, partyType string, partyID int64) (*model.Ledger, error) {
	if err := validParty(partyType, partyID); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	path := fmt.Sprintf("/finance/ledger/%s/%d", partyType, partyID)
	if err := fm.client.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	ledger, err := parseLedger(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	ledger.PartyType = partyType
	ledger.PartyID = partyID

	fm.mu.Lock()
	fm.open = ledger
	fm.mu.Unlock()
	return ledger, nil
}

// OpenLedger returns the ledger last fetched, if any
func (fm *FinanceManager) OpenLedger() *model.Ledger {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	return fm.open
}

// parseLedger accepts a bare array of entries or an envelope carrying the balance
func parseLedger(raw []byte) (*model.Ledger, error) {
	ledger := &model.Ledger{Transactions: []model.LedgerEntry{}}
	if len(bytes.TrimSpace(raw)) == 0 {
		return ledger, nil
	}

	rows, err := api.UnwrapList(raw)
	if err != nil {
		return nil, err
	}
	if err := api.DecodeMapped("ledger", rows, &ledger.Transactions); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	if _, ok := data.(map[string]any); !ok {
		return ledger, nil
	}
	for _, expr := range balancePaths {
		for _, v := range expr.Get(data) {
			if d, ok := toDecimal(v); ok {
				ledger.Balance = d
				return ledger, nil
			}
		}
	}
	return ledger, nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(t), true
	case int64:
		return decimal.NewFromInt(t), true
	default:
		return decimal.Zero, false
	}
}

// ReceivePayment records a payment from a party.
// The open ledger is re-fetched when the payment targets it.
func (fm *FinanceManager) ReceivePayment(ctx context.Context, p model.Payment) error {
	if err := validParty(p.PartyType, p.PartyID); err != nil {
		return &MutationError{Entity: "payment", Op: "record", Detail: err.Error()}
	}
	if !p.Amount.IsPositive() {
		return invalid("payment", "record", "amount must be positive")
	}
	if p.PaymentMode == "" {
		p.PaymentMode = DefaultPaymentMode
	}

	payload := map[string]any{
		"party_type":       p.PartyType,
		"party_id":         p.PartyID,
		"amount":           json.Number(p.Amount.String()),
		"payment_mode":     p.PaymentMode,
		"reference_number": p.ReferenceNumber,
		"remarks":          p.Remarks,
	}
	if err := fm.client.Post(ctx, "/finance/payments", payload, nil); err != nil {
		fm.logger.Warn(ctx, "Payment failed", log.Fields{"party_type": p.PartyType, "party_id": p.PartyID, "error": err})
		return &MutationError{Entity: "payment", Op: "record", Detail: api.Detail(err), Err: err}
	}
	fm.logger.Info(ctx, "Payment recorded", log.Fields{"party_type": p.PartyType, "party_id": p.PartyID, "amount": p.Amount.String()})

	open := fm.OpenLedger()
	if open != nil && open.PartyType == p.PartyType && open.PartyID == p.PartyID {
		if _, err := fm.Ledger(ctx, p.PartyType, p.PartyID); err != nil {
			return fmt.Errorf("payment recorded but the ledger could not be reloaded: %w", err)
		}
	}
	return nil
}
