package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PartyTypes are the ledger party types accepted by the finance endpoints
var PartyTypes = []string{"ss", "distributor", "retailer"}

// LedgerEntry is one transaction in a partner's financial ledger.
// Amount and Remarks are canonical after field mapping (value, description).
type LedgerEntry struct {
	ID              int64           `json:"id"`
	Type            string          `json:"type,omitempty"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       string          `json:"created_at,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Remarks         string          `json:"remarks,omitempty"`
}

// IsCredit reports whether the entry reduces what the party owes
func (e LedgerEntry) IsCredit() bool {
	return strings.EqualFold(e.Type, "CREDIT") || strings.EqualFold(e.TransactionType, "PAYMENT") || e.Amount.IsNegative()
}

// Label returns the server type, or a label derived from the direction
func (e LedgerEntry) Label() string {
	if e.Type != "" {
		return e.Type
	}
	if e.IsCredit() {
		return "PAYMENT RECEIVED"
	}
	return "INVOICE ISSUED"
}

// Ledger is a partner ledger with the balance reported by the server.
type Ledger struct {
	PartyType    string
	PartyID      int64
	Transactions []LedgerEntry
	Balance      decimal.Decimal
}

// Payment is the receive-payment form.
type Payment struct {
	PartyType       string          `json:"party_type"`
	PartyID         int64           `json:"party_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMode     string          `json:"payment_mode"`
	ReferenceNumber string          `json:"reference_number"`
	Remarks         string          `json:"remarks"`
}
