package models

import "time"

// BirthdayLayout is the date-only format used for birthdays on the wire and in sqlite.
const BirthdayLayout = "2006-01-02"

// User is a registered account. PasswordHash always holds a bcrypt digest.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"passwordHash"`
	Email          string     `json:"email"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	FavoriteMovies []string   `json:"favoriteMovies"`
}

// UserUpdate is the $set payload of a profile update.
type UserUpdate struct {
	Username     string
	PasswordHash string
	Email        string
	Birthday     *time.Time
}
