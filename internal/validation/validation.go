// Package validation is the single input-validation boundary for the API.
// Registration and login collect every field error; book creation reports
// only the first.
package validation

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name            string   `json:"name" validate:"required,min=6,max=10"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=6,max=20"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	Gender          string   `json:"gender" validate:"required"`
	Interest        []string `json:"interest" validate:"required,min=1,dive,required"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// BookInput is the book-create payload. UserID is optional; when zero the
// handler falls back to the token subject.
type BookInput struct {
	UserID       uint    `json:"userId"`
	BookName     string  `json:"bookName" validate:"required"`
	BookDesc     string  `json:"bookDesc" validate:"required"`
	NoOfPages    int     `json:"noOfPages" validate:"required,min=1"`
	BookAuthor   string  `json:"bookAuthor" validate:"required"`
	BookCategory string  `json:"bookCategory" validate:"required"`
	BookPrice    float64 `json:"bookPrice" validate:"required,twodecimals"`
	ReleasedYear int     `json:"releasedYear" validate:"required,min=1500"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("twodecimals", func(fl validator.FieldLevel) bool {
		price := fl.Field().Float()
		scaled := price * 100
		return math.Abs(scaled-math.Round(scaled)) < 1e-9
	})
	return v
}

// ValidateRegister returns all field error messages, or nil when valid.
func ValidateRegister(in RegisterInput) []string {
	return collect(validate.Struct(in))
}

// ValidateLogin returns all field error messages, or nil when valid.
func ValidateLogin(in LoginInput) []string {
	return collect(validate.Struct(in))
}

// ValidateBook returns the first field error message, or "" when valid.
func ValidateBook(in BookInput) string {
	msgs := collect(validate.Struct(in))
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

func collect(err error) []string {
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid request payload."}
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

// message maps a field error to a human-readable sentence. Unknown
// field/tag combinations fall back to a generic sentence so new rules
// never surface raw validator output.
func message(fe validator.FieldError) string {
	field := fe.Field()
	// dive errors on interest elements come through as interest[N]
	if strings.HasPrefix(field, "interest[") {
		return "Interest cannot contain empty values."
	}
	key := field + "." + fe.Tag()
	if msg, ok := messages[key]; ok {
		return msg
	}
	if msg, ok := fallbackMessages[fe.Tag()]; ok {
		return strings.ReplaceAll(msg, "{field}", field)
	}
	return "Invalid value for " + field + "."
}

var messages = map[string]string{
	"name.required":  "Name is required.",
	"name.min":       "Name must be at least 6 characters long.",
	"name.max":       "Name must be at most 10 characters long.",
	"email.required": "Email is required.",
	"email.email":    "Email must be a valid email address.",

	"password.required": "Password is required.",
	"password.min":      "Password must be at least 6 characters long.",
	"password.max":      "Password must be at most 20 characters long.",

	"confirmPassword.required": "Confirm password is required.",
	"confirmPassword.eqfield":  "Passwords must match.",

	"gender.required": "Gender is required.",

	"interest.required": "Interest is required.",
	"interest.min":      "Interest cannot be empty.",

	"bookName.required":     "Book name is required.",
	"bookDesc.required":     "Book description is required.",
	"noOfPages.required":    "Number of pages is required.",
	"noOfPages.min":         "Number of pages must be at least 1.",
	"bookAuthor.required":   "Book author is required.",
	"bookCategory.required": "Book category is required.",
	"bookPrice.required":    "Book price is required.",
	"bookPrice.twodecimals": "Book price must have 2 decimal places at most.",
	"releasedYear.required": "Released year is required.",
	"releasedYear.min":      "Released year must be at least 1500.",
}

var fallbackMessages = map[string]string{
	"required": "{field} is required.",
	"min":      "{field} is too small.",
	"max":      "{field} is too large.",
}
