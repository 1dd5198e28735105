package myflix

//go:generate swag init -g cmd/main.go -o docs

import (
	"embed"

	"myflix/internal/models"
	"myflix/internal/service"
)

// LoginResponse is the body of a successful POST /login.
type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid or expired token"`
}

// ValidationErrorResponse lists every failed field check (HTTP 422).
type ValidationErrorResponse struct {
	Errors []service.FieldError `json:"errors"`
}

// Public holds the static pages served at the root (documentation.html).
//
//go:embed public
var Public embed.FS
