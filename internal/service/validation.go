package service

import (
	"strings"
	"time"

	"myflix/internal/models"

	"github.com/go-playground/validator/v10"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are rejected
// rather than silently truncated.
const maxPasswordBytes = 72

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failed field check of one request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type fieldRule struct {
	tag     string
	message string
	// stop skips the field's remaining rules when this one fails.
	stop bool
}

var (
	validate = newValidator()

	usernameRules = []fieldRule{
		{tag: "min=5", message: "Username is required"},
		{tag: "alphanum", message: "Username contains non alphanumeric characters - not allowed."},
	}
	passwordRules = []fieldRule{
		{tag: "required", message: "Password is required", stop: true},
		{tag: "min=8", message: "Password must be at least 8 characters long"},
		{tag: "bcryptmax", message: "Password must be at most 72 bytes long"},
	}
	emailRules = []fieldRule{
		{tag: "email", message: "Email does not appear to be valid"},
	}

	birthdayLayouts = []string{models.BirthdayLayout, time.RFC3339}
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

func checkField(field, value string, rules []fieldRule) []FieldError {
	var out []FieldError
	for _, r := range rules {
		if err := validate.Var(value, r.tag); err != nil {
			out = append(out, FieldError{Field: field, Message: r.message})
			if r.stop {
				break
			}
		}
	}
	return out
}

// Validate checks the shape of every field and returns the parsed birthday
// (nil when absent). A non-nil error is always a *ValidationError.
func (in UserInput) Validate() (*time.Time, error) {
	var errs []FieldError
	errs = append(errs, checkField("Username", in.Username, usernameRules)...)
	errs = append(errs, checkField("Password", in.Password, passwordRules)...)
	errs = append(errs, checkField("Email", in.Email, emailRules)...)

	birthday, ok := parseBirthday(in.Birthday)
	if !ok {
		errs = append(errs, FieldError{Field: "Birthday", Message: "Birthday must be a date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return birthday, nil
}

func parseBirthday(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range birthdayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day, true
		}
	}
	return nil, false
}
