package user

import "time"

// Roles assignable to an account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Phone-only accounts created through
// the WhatsApp flow carry no email or password hash.
type User struct {
	ID           int64
	Phone        string
	Name         string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
