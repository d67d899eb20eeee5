package schema

// UserTable represents the 'user' table
type UserTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

// User is the schema definition for user
var User = UserTable{
	Table:        "user",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	PasswordHash: "password_hash",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.PasswordHash}
}
