package domain

// User is a registered account. Username is immutable once created.
type User struct {
	Base
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash,omitempty"` // Never leaves the service layer
}
