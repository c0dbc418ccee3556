package schema

// ShopProductTable represents the 'shop.product' table
type ShopProductTable struct {
	Table         string
	ID            string
	Slug          string
	SKU           string
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	CareEn        string
	CareAr        string
	CategoryID    string
	Price         string
	CompareAt     string
	Stock         string
	IsActive      string
	ImageURL      string
	SearchVector  string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// ShopProduct is the schema definition for shop.product
var ShopProduct = ShopProductTable{
	Table:         "shop.product",
	ID:            "id",
	Slug:          "slug",
	SKU:           "sku",
	NameEn:        "nameen",
	NameAr:        "namear",
	DescriptionEn: "descriptionen",
	DescriptionAr: "descriptionar",
	CareEn:        "careen",
	CareAr:        "carear",
	CategoryID:    "categoryid",
	Price:         "price",
	CompareAt:     "compareatprice",
	Stock:         "stock",
	IsActive:      "isactive",
	ImageURL:      "imageurl",
	SearchVector:  "searchvector",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

// Columns returns all standard column names
func (t ShopProductTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.SKU, t.NameEn, t.NameAr, t.DescriptionEn, t.DescriptionAr,
		t.CareEn, t.CareAr, t.CategoryID, t.Price, t.CompareAt, t.Stock,
		t.IsActive, t.ImageURL, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
