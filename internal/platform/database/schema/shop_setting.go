package schema

// ShopSettingTable represents the 'shop.setting' table.
// Settings are append-only: each write creates a new version for the key,
// and the live document is the row with the highest version.
type ShopSettingTable struct {
	Table     string
	Key       string
	Version   string
	Document  string
	UpdatedBy string
	CreatedAt string
}

// ShopSetting is the schema definition for shop.setting
var ShopSetting = ShopSettingTable{
	Table:     "shop.setting",
	Key:       "key",
	Version:   "version",
	Document:  "document",
	UpdatedBy: "updatedby",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ShopSettingTable) Columns() []string {
	return []string{t.Key, t.Version, t.Document, t.UpdatedBy, t.CreatedAt}
}
