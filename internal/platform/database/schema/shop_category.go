package schema

// ShopCategoryTable represents the 'shop.category' table
type ShopCategoryTable struct {
	Table         string
	ID            string
	Slug          string
	NameEn        string
	NameAr        string
	DescriptionEn string
	DescriptionAr string
	ParentID      string
	Position      string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// ShopCategory is the schema definition for shop.category
var ShopCategory = ShopCategoryTable{
	Table:         "shop.category",
	ID:            "id",
	Slug:          "slug",
	NameEn:        "nameen",
	NameAr:        "namear",
	DescriptionEn: "descriptionen",
	DescriptionAr: "descriptionar",
	ParentID:      "parentid",
	Position:      "position",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

// Columns returns all standard column names
func (t ShopCategoryTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.NameEn, t.NameAr, t.DescriptionEn, t.DescriptionAr,
		t.ParentID, t.Position, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
