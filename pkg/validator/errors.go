package validator

import (
	"errors"
	"strings"
)

// ValidationError describes one failed rule.
type ValidationError struct {
	TranslationValues map[string]any `json:"-"`
	Field             string         `json:"field"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"-"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a list of field errors. It implements error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// IsEmpty reports whether there are no errors.
func (ve ValidationErrors) IsEmpty() bool { return len(ve) == 0 }

// Has reports whether field has at least one error.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages for field in rule order.
func (ve ValidationErrors) Get(field string) []string {
	var msgs []string
	for _, e := range ve {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

// GetErrors returns the errors for field.
func (ve ValidationErrors) GetErrors(field string) []ValidationError {
	var out []ValidationError
	for _, e := range ve {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// Fields groups messages by field name.
func (ve ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, e := range ve {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

// Add appends an error for field.
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

// Translate replaces each message that has a translation key with the result of fn.
// A nil fn is a no-op.
func (ve ValidationErrors) Translate(fn func(key string, values map[string]any) string) {
	if fn == nil {
		return
	}
	for i := range ve {
		if ve[i].TranslationKey == "" {
			continue
		}
		ve[i].Message = fn(ve[i].TranslationKey, ve[i].TranslationValues)
	}
}

// IsValidationError reports whether err wraps ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors wrapped by err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
