package model

import "github.com/shopspring/decimal"

// PartnerTier identifies one of the parallel partner categories.
type PartnerTier string

const (
	TierSuperStockist PartnerTier = "super-stockists"
	TierDistributor   PartnerTier = "distributors"
	TierRetailer      PartnerTier = "retailers"
)

// PartnerTiers lists the tiers in display order
var PartnerTiers = []PartnerTier{TierSuperStockist, TierDistributor, TierRetailer}

// ParsePartnerTier accepts the tier route or a short alias (ss, distributor, retailer)
func ParsePartnerTier(s string) (PartnerTier, bool) {
	switch s {
	case "ss", "super-stockist", "super-stockists", "superstockist":
		return TierSuperStockist, true
	case "distributor", "distributors", "dist":
		return TierDistributor, true
	case "retailer", "retailers", "ret":
		return TierRetailer, true
	default:
		return "", false
	}
}

// PartyType returns the short party type used by the finance and inventory endpoints
func (t PartnerTier) PartyType() string {
	switch t {
	case TierSuperStockist:
		return "ss"
	case TierDistributor:
		return "distributor"
	case TierRetailer:
		return "retailer"
	default:
		return ""
	}
}

// Partner is a super-stockist, distributor or retailer record.
// Name and Phone are canonical after field mapping (firm_name, shop_name, contact_number).
type Partner struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	TerritoryID   int64  `json:"territory_id,omitempty"`
	GSTIN         string `json:"gstin,omitempty"`
	IsActive      bool   `json:"is_active"`
}

// Product is a sellable SKU.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

// PartnerInput is the create form for a partner in any tier.
type PartnerInput struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	TerritoryID   int64  `json:"territory_id"`
	GSTIN         string `json:"gstin"`
	IsActive      bool   `json:"is_active"`
}

// ProductInput is the create form for a product.
type ProductInput struct {
	Name     string          `json:"name"`
	SKU      string          `json:"sku,omitempty"`
	Unit     string          `json:"unit,omitempty"`
	Price    decimal.Decimal `json:"-"`
	IsActive bool            `json:"is_active"`
}
