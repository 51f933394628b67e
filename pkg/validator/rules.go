package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// Rule is a single evaluated check. Check is true when the value is valid.
type Rule struct {
	Error ValidationError
	Check bool
}

// Apply returns ValidationErrors for every failed rule, or nil.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Check {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// When returns rules only if cond holds; otherwise it returns passing rules.
// Useful for optional fields on partial updates.
func When(cond bool, rules ...Rule) Rule {
	if !cond {
		return Rule{Check: true}
	}
	for _, r := range rules {
		if !r.Check {
			return r
		}
	}
	return Rule{Check: true}
}

func newRule(ok bool, field, key, msg string, values map[string]any) Rule {
	if values == nil {
		values = map[string]any{}
	}
	values["field"] = field
	return Rule{
		Check: ok,
		Error: ValidationError{
			Field:             field,
			Message:           msg,
			TranslationKey:    key,
			TranslationValues: values,
		},
	}
}

// RequiredString fails for empty or whitespace-only strings.
func RequiredString(field, value string) Rule {
	return newRule(strings.TrimSpace(value) != "", field,
		"validation.required", fmt.Sprintf("The %s field is required.", field), nil)
}

// MinLenString fails when value has fewer than n runes.
func MinLenString(field, value string, n int) Rule {
	return newRule(utf8.RuneCountInString(value) >= n, field,
		"validation.min_length",
		fmt.Sprintf("The %s field must be at least %d characters.", field, n),
		map[string]any{"min": n})
}

// MaxLenString fails when value has more than n runes.
func MaxLenString(field, value string, n int) Rule {
	return newRule(utf8.RuneCountInString(value) <= n, field,
		"validation.max_length",
		fmt.Sprintf("The %s field must not be greater than %d characters.", field, n),
		map[string]any{"max": n})
}

// MaxLenSlice fails when the slice has more than n items.
func MaxLenSlice[T any](field string, value []T, n int) Rule {
	return newRule(len(value) <= n, field,
		"validation.max_items",
		fmt.Sprintf("The %s field must not have more than %d items.", field, n),
		map[string]any{"max": n})
}

// Locale fails when value is not a well-formed BCP 47 language tag.
// Empty values pass; combine with RequiredString when the field is mandatory.
func Locale(field, value string) Rule {
	ok := value == ""
	if !ok {
		_, err := language.Parse(value)
		ok = err == nil
	}
	return newRule(ok, field, "validation.locale",
		fmt.Sprintf("The %s field must be a valid locale code.", field), nil)
}

// InSet fails for the first item of values not present in allowed.
// The error is reported under "field.N" to point at the offending index.
func InSet(field string, values []string, allowed func(string) bool) Rule {
	for i, v := range values {
		if !allowed(v) {
			return newRule(false, fmt.Sprintf("%s.%d", field, i), "validation.exists",
				fmt.Sprintf("The selected %s.%d is invalid.", field, i),
				map[string]any{"value": v})
		}
	}
	return Rule{Check: true}
}

// OneOf fails when value is not one of options.
func OneOf(field, value string, options ...string) Rule {
	return newRule(slices.Contains(options, value), field, "validation.in",
		fmt.Sprintf("The selected %s is invalid.", field),
		map[string]any{"options": options})
}
