package schema

// ShopVIPTierTable represents the 'shop.viptier' table
type ShopVIPTierTable struct {
	Table           string
	ID              string
	Code            string
	NameEn          string
	NameAr          string
	MinSpend        string
	MaxSpend        string
	DiscountPercent string
	Position        string
	CreatedAt       string
	UpdatedAt       string
}

// ShopVIPTier is the schema definition for shop.viptier
var ShopVIPTier = ShopVIPTierTable{
	Table:           "shop.viptier",
	ID:              "id",
	Code:            "code",
	NameEn:          "nameen",
	NameAr:          "namear",
	MinSpend:        "minspend",
	MaxSpend:        "maxspend",
	DiscountPercent: "discountpercent",
	Position:        "position",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t ShopVIPTierTable) Columns() []string {
	return []string{
		t.ID, t.Code, t.NameEn, t.NameAr, t.MinSpend, t.MaxSpend,
		t.DiscountPercent, t.Position, t.CreatedAt, t.UpdatedAt,
	}
}

// ShopVIPMembershipTable represents the 'shop.vipmembership' table
type ShopVIPMembershipTable struct {
	Table            string
	AccountID        string
	PinnedTierID     string
	TotalSpend       string
	Points           string
	EnrolledAt       string
	LastTierChangeAt string
	UpdatedAt        string
}

// ShopVIPMembership is the schema definition for shop.vipmembership
var ShopVIPMembership = ShopVIPMembershipTable{
	Table:            "shop.vipmembership",
	AccountID:        "accountid",
	PinnedTierID:     "pinnedtierid",
	TotalSpend:       "totalspend",
	Points:           "points",
	EnrolledAt:       "enrolledat",
	LastTierChangeAt: "lasttierchangeat",
	UpdatedAt:        "updatedat",
}

// Columns returns all standard column names
func (t ShopVIPMembershipTable) Columns() []string {
	return []string{t.AccountID, t.PinnedTierID, t.TotalSpend, t.Points, t.EnrolledAt, t.LastTierChangeAt, t.UpdatedAt}
}
