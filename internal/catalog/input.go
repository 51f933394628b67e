package catalog

import "github.com/dmitrymomot/lingo/pkg/validator"

// Field limits mirror the column sizes in migrations.
const (
	MaxLocaleLength = 10
	MaxKeyLength    = 255
)

// CreateInput is the payload of a create request.
// A nil Tags leaves the new record untagged; so does an empty one.
type CreateInput struct {
	Locale  string
	Key     string
	Content string
	Tags    []string
}

// UpdateInput is a partial update. Nil pointers are left unchanged.
// Tags: nil leaves associations untouched, non-nil replaces them (empty clears).
type UpdateInput struct {
	Locale  *string
	Key     *string
	Content *string
	Tags    []string
}

// Fields returns the column changes of the update.
func (in UpdateInput) Fields() UpdateFields {
	return UpdateFields{Locale: in.Locale, Key: in.Key, Content: in.Content}
}

func (in CreateInput) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("locale", in.Locale),
		validator.MaxLenString("locale", in.Locale, MaxLocaleLength),
		validator.Locale("locale", in.Locale),
		validator.RequiredString("key", in.Key),
		validator.MaxLenString("key", in.Key, MaxKeyLength),
		validator.RequiredString("content", in.Content),
	}
}

func (in UpdateInput) rules() []validator.Rule {
	return []validator.Rule{
		validator.When(in.Locale != nil,
			validator.RequiredString("locale", deref(in.Locale)),
			validator.MaxLenString("locale", deref(in.Locale), MaxLocaleLength),
			validator.Locale("locale", deref(in.Locale)),
		),
		validator.When(in.Key != nil,
			validator.RequiredString("key", deref(in.Key)),
			validator.MaxLenString("key", deref(in.Key), MaxKeyLength),
		),
		validator.When(in.Content != nil,
			validator.RequiredString("content", deref(in.Content)),
		),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
