package model

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository layer; handlers
// define separate response types with the fields they actually expose.
type User struct {
	ID           string // users.id (uuid)
	Name         string // users.name
	Email        string // users.email (unique)
	PasswordHash string // users.password_hash
	CreatedAt    string // users.created_at
}
