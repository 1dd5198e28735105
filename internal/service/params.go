package service

// UserInput is the raw registration or profile-update payload. Password is
// the plaintext submitted by the client; it never reaches a repository.
type UserInput struct {
	Username string
	Password string
	Email    string
	Birthday string // optional, YYYY-MM-DD or RFC3339
}
