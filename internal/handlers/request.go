package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/pkg/validator"
)

// payload is a decoded JSON object whose fields are type-checked one by one,
// so a wrong type becomes a field error instead of a malformed-body error.
// JSON null is treated like an absent field; strings are trimmed.
type payload struct {
	fields map[string]json.RawMessage
	errs   validator.ValidationErrors
}

func bindPayload(c internal.Context) (*payload, error) {
	var fields map[string]json.RawMessage
	if err := c.BindJSON(&fields); err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	return &payload{fields: fields}, nil
}

func (p *payload) raw(name string) (json.RawMessage, bool) {
	raw, ok := p.fields[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func (p *payload) text(name string) *string {
	raw, ok := p.raw(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.errs.Add(name, fmt.Sprintf("The %s field must be a string.", name))
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

// list decodes an array of strings. Absent yields nil; [] yields an
// empty, non-nil slice.
func (p *payload) list(name string) []string {
	raw, ok := p.raw(name)
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		p.errs.Add(name, fmt.Sprintf("The %s field must be an array.", name))
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			field := name + "." + strconv.Itoa(i)
			p.errs.Add(field, fmt.Sprintf("The %s field must be a string.", field))
			continue
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func (p *payload) err() error {
	if p.errs.IsEmpty() {
		return nil
	}
	return p.errs
}

func bindCreate(c internal.Context) (catalog.CreateInput, error) {
	p, err := bindPayload(c)
	if err != nil {
		return catalog.CreateInput{}, err
	}
	in := catalog.CreateInput{
		Locale:  deref(p.text("locale")),
		Key:     deref(p.text("key")),
		Content: deref(p.text("content")),
		Tags:    p.list("tags"),
	}
	return in, p.err()
}

func bindUpdate(c internal.Context) (catalog.UpdateInput, error) {
	p, err := bindPayload(c)
	if err != nil {
		return catalog.UpdateInput{}, err
	}
	in := catalog.UpdateInput{
		Locale:  p.text("locale"),
		Key:     p.text("key"),
		Content: p.text("content"),
		Tags:    p.list("tags"),
	}
	return in, p.err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
