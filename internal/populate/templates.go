package populate

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Category is a key namespace and its leaf names.
type Category struct {
	Name string   `yaml:"name"`
	Keys []string `yaml:"keys"`
}

// LocaleWeight is the share of generated rows in a locale, in percent.
type LocaleWeight struct {
	Code   string `yaml:"code"`
	Weight int    `yaml:"weight"`
}

// Templates drives the generator.
type Templates struct {
	Content      map[string]map[string][]string `yaml:"content"`      // locale -> "category.key" -> variants
	Fallback     map[string]map[string]string   `yaml:"fallback"`     // locale -> category -> base text
	Placeholders map[string][]string            `yaml:"placeholders"` // name -> replacements
	Tags         []string                       `yaml:"tags"`
	Categories   []Category                     `yaml:"categories"`
	Locales      []LocaleWeight                 `yaml:"locales"`
}

// ParseTemplates decodes and checks a templates document.
func ParseTemplates(data []byte) (Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("parse templates: %w", err)
	}
	if err := t.validate(); err != nil {
		return Templates{}, err
	}
	return t, nil
}

// DefaultTemplates returns the embedded templates.
func DefaultTemplates() Templates {
	t, err := ParseTemplates(defaultTemplates)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Templates) validate() error {
	if len(t.Tags) == 0 {
		return errors.New("templates: no tags")
	}
	if len(t.Categories) == 0 {
		return errors.New("templates: no categories")
	}
	for _, c := range t.Categories {
		if len(c.Keys) == 0 {
			return fmt.Errorf("templates: category %q has no keys", c.Name)
		}
	}
	total := 0
	for _, l := range t.Locales {
		total += l.Weight
	}
	if total != 100 {
		return fmt.Errorf("templates: locale weights sum to %d, want 100", total)
	}
	return nil
}
