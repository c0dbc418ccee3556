package schema

// ShopOrderTable represents the 'shop.order' table
type ShopOrderTable struct {
	Table        string
	ID           string
	AccountID    string
	OrderNumber  string
	Status       string
	Subtotal     string
	Discount     string
	ShippingFee  string
	FreeShipping string
	Total        string
	CreatedAt    string
	UpdatedAt    string
}

// ShopOrder is the schema definition for shop.order
var ShopOrder = ShopOrderTable{
	Table:        `shop."order"`,
	ID:           "id",
	AccountID:    "accountid",
	OrderNumber:  "ordernumber",
	Status:       "status",
	Subtotal:     "subtotal",
	Discount:     "discount",
	ShippingFee:  "shippingfee",
	FreeShipping: "freeshipping",
	Total:        "total",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t ShopOrderTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.OrderNumber, t.Status, t.Subtotal, t.Discount,
		t.ShippingFee, t.FreeShipping, t.Total, t.CreatedAt, t.UpdatedAt,
	}
}

// ShopOrderItemTable represents the 'shop.orderitem' table
type ShopOrderItemTable struct {
	Table     string
	ID        string
	OrderID   string
	ProductID string
	NameEn    string
	NameAr    string
	Quantity  string
	UnitPrice string
	LineTotal string
}

// ShopOrderItem is the schema definition for shop.orderitem
var ShopOrderItem = ShopOrderItemTable{
	Table:     "shop.orderitem",
	ID:        "id",
	OrderID:   "orderid",
	ProductID: "productid",
	NameEn:    "nameen",
	NameAr:    "namear",
	Quantity:  "quantity",
	UnitPrice: "unitprice",
	LineTotal: "linetotal",
}

// Columns returns all standard column names
func (t ShopOrderItemTable) Columns() []string {
	return []string{t.ID, t.OrderID, t.ProductID, t.NameEn, t.NameAr, t.Quantity, t.UnitPrice, t.LineTotal}
}
