package utils

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"shorturl-go/internal/shortcode"
)

// Message ids of validation failures, resolved through the i18n catalog.
const (
	MsgBlank      = "error.blank"
	MsgInvalidURL = "error.invalid_url"
	MsgTooLong    = "error.too_long"
)

// MaxOriginalLength matches the column size of urls.original.
const MaxOriginalLength = 768

// ErrInvalidShortCode is returned for codes the generator could not have produced.
var ErrInvalidShortCode = errors.New("short code is not well formed")

// hostnamePattern: alphanumeric labels joined by '.' or '-', ending in a 2-5 letter TLD.
var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+([\-.][a-zA-Z0-9]+)*\.[a-zA-Z]{2,5}$`)

const disallowedChars = "{}|\\^<>\"`"

// ValidationError reports why a submitted value was rejected.
type ValidationError struct {
	Field     string
	MessageID string
	Message   string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

type originalURLInput struct {
	Original string `validate:"notblank,max=768,httpurl"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("httpurl", isHTTPURL); err != nil {
		panic(err)
	}
	return v
}

// ValidateOriginalURL checks that raw is a well-formed http or https URL.
func ValidateOriginalURL(raw string) error {
	err := validate.Struct(originalURLInput{Original: raw})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Tag() {
		case "notblank":
			return &ValidationError{Field: "original", MessageID: MsgBlank, Message: "can't be blank"}
		case "max":
			return &ValidationError{Field: "original", MessageID: MsgTooLong, Message: "is too long (maximum is 768 characters)"}
		}
	}
	return &ValidationError{Field: "original", MessageID: MsgInvalidURL, Message: "is not a valid HTTP or HTTPS URL"}
}

// ValidateOriginalLength checks the stored form of original against the
// column size. Normalization can grow a URL that passed ValidateOriginalURL.
func ValidateOriginalLength(original string) error {
	if utf8.RuneCountInString(original) > MaxOriginalLength {
		return tooLong()
	}
	return nil
}

func tooLong() *ValidationError {
	return &ValidationError{Field: "original", MessageID: MsgTooLong, Message: "is too long (maximum is 768 characters)"}
}

// ValidateShortCode rejects anything that cannot be a generated code.
func ValidateShortCode(code string) error {
	if !shortcode.Valid(code) {
		return ErrInvalidShortCode
	}
	return nil
}

func isHTTPURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if ContainsWhitespace(raw) || strings.ContainsAny(raw, disallowedChars) {
		return false
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return false
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Opaque != "" || u.User != nil {
		return false
	}
	return hostnamePattern.MatchString(u.Hostname())
}

// ContainsWhitespace reports whether s has any Unicode space character.
func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
