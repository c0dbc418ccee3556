package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table             string
	ID                string
	Email             string
	Password          string
	DisplayName       string
	Phone             string
	PreferredLanguage string
	IsActive          string
	LastLoginAt       string
	CreatedAt         string
	UpdatedAt         string
	DeletedAt         string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:             "users.account",
	ID:                "id",
	Email:             "email",
	Password:          "passwordhash",
	DisplayName:       "displayname",
	Phone:             "phone",
	PreferredLanguage: "preferredlanguage",
	IsActive:          "isactive",
	LastLoginAt:       "lastloginat",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
	DeletedAt:         "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Password, t.DisplayName, t.Phone, t.PreferredLanguage,
		t.IsActive, t.LastLoginAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
