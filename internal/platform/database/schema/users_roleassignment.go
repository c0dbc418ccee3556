package schema

// UserRoleAssignmentTable represents the 'users.roleassignment' table.
// Primary key is (accountid, role); an account may hold several roles.
type UserRoleAssignmentTable struct {
	Table     string
	AccountID string
	Role      string
	GrantedBy string
	CreatedAt string
}

// UserRoleAssignment is the schema definition for users.roleassignment
var UserRoleAssignment = UserRoleAssignmentTable{
	Table:     "users.roleassignment",
	AccountID: "accountid",
	Role:      "role",
	GrantedBy: "grantedby",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserRoleAssignmentTable) Columns() []string {
	return []string{t.AccountID, t.Role, t.GrantedBy, t.CreatedAt}
}
