package schema

// ShopCartTable represents the 'shop.cart' table
type ShopCartTable struct {
	Table     string
	ID        string
	AccountID string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ShopCart is the schema definition for shop.cart
var ShopCart = ShopCartTable{
	Table:     "shop.cart",
	ID:        "id",
	AccountID: "accountid",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ShopCartTable) Columns() []string {
	return []string{t.ID, t.AccountID, t.Status, t.CreatedAt, t.UpdatedAt}
}

// ShopCartItemTable represents the 'shop.cartitem' table
type ShopCartItemTable struct {
	Table     string
	ID        string
	CartID    string
	ProductID string
	Quantity  string
	UnitPrice string
	CreatedAt string
	UpdatedAt string
}

// ShopCartItem is the schema definition for shop.cartitem
var ShopCartItem = ShopCartItemTable{
	Table:     "shop.cartitem",
	ID:        "id",
	CartID:    "cartid",
	ProductID: "productid",
	Quantity:  "quantity",
	UnitPrice: "unitprice",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t ShopCartItemTable) Columns() []string {
	return []string{t.ID, t.CartID, t.ProductID, t.Quantity, t.UnitPrice, t.CreatedAt, t.UpdatedAt}
}
