package domain

// User is an account identified by a caller-chosen userId.
type User struct {
	ID           string
	PasswordHash string
}
