package populate

import (
	"maps"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Tag pools by surface.
var (
	mobileTags  = []string{"mobile", "ios", "android"}
	webTags     = []string{"web", "desktop", "frontend"}
	backendTags = []string{"backend"}
)

// Row is one generated translation with its tag ids.
type Row struct {
	CreatedAt time.Time
	Locale    string
	Key       string
	Content   string
	TagIDs    []int64
	ID        int64
}

// Generator produces random translation rows.
type Generator struct {
	rng  *rand.Rand
	tpl  Templates
	tags map[string]int64 // name -> id
}

// NewGenerator creates a Generator. tags maps every template tag name to its id.
func NewGenerator(rng *rand.Rand, tpl Templates, tags map[string]int64) *Generator {
	return &Generator{rng: rng, tpl: tpl, tags: tags}
}

// Row builds the row with the given id.
func (g *Generator) Row(id int64, now time.Time) Row {
	category, key := g.Key()
	locale := g.Locale()
	return Row{
		ID:        id,
		Locale:    locale,
		Key:       key,
		Content:   g.Content(key, locale),
		CreatedAt: now,
		TagIDs:    g.Tags(category),
	}
}

// Key returns a random "category.leaf" key, with a numeric suffix one time in five.
func (g *Generator) Key() (category, key string) {
	c := g.tpl.Categories[g.rng.IntN(len(g.tpl.Categories))]
	key = c.Name + "." + c.Keys[g.rng.IntN(len(c.Keys))]
	if g.rng.IntN(100) < 20 {
		key += "." + strconv.Itoa(1+g.rng.IntN(1000))
	}
	return c.Name, key
}

// Locale picks a locale by weight.
func (g *Generator) Locale() string {
	n := g.rng.IntN(100)
	for _, l := range g.tpl.Locales {
		if n < l.Weight {
			return l.Code
		}
		n -= l.Weight
	}
	return g.tpl.Locales[len(g.tpl.Locales)-1].Code
}

// Content renders text for key in locale from a template variant, or from
// the category fallback when no template exists.
func (g *Generator) Content(key, locale string) string {
	parts := strings.Split(key, ".")
	base := parts[0]
	if len(parts) > 1 {
		base += "." + parts[1]
	}

	if variants := g.tpl.Content[locale][base]; len(variants) > 0 {
		text := variants[g.rng.IntN(len(variants))]
		for _, name := range slices.Sorted(maps.Keys(g.tpl.Placeholders)) {
			values := g.tpl.Placeholders[name]
			if len(values) == 0 {
				continue
			}
			text = strings.ReplaceAll(text, "{"+name+"}", values[g.rng.IntN(len(values))])
		}
		return text
	}

	text, ok := g.tpl.Fallback[locale][parts[0]]
	if !ok {
		text, ok = g.tpl.Fallback["en"][parts[0]]
	}
	if !ok {
		text = "Content"
	}
	leaf := "item"
	if len(parts) > 1 {
		leaf = strings.ReplaceAll(parts[1], "_", " ")
		leaf = strings.ToUpper(leaf[:1]) + leaf[1:]
	}
	return text + " - " + leaf
}

// Tags picks one to three distinct tag ids from the pool of category.
func (g *Generator) Tags(category string) []int64 {
	var names []string
	switch category {
	case "app", "page", "form":
		names = slices.Concat(webTags, mobileTags, backendTags)
	case "button", "field":
		if g.rng.IntN(100) < 70 {
			names = slices.Concat(webTags, mobileTags)
		} else {
			names = backendTags
		}
	default:
		names = g.tpl.Tags
	}

	pool := make([]int64, 0, len(names))
	for _, name := range names {
		if id, ok := g.tags[name]; ok {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		for _, name := range g.tpl.Tags {
			if id, ok := g.tags[name]; ok {
				pool = append(pool, id)
			}
		}
	}
	if len(pool) == 0 {
		return nil
	}

	n := 1 + g.rng.IntN(min(3, len(pool)))
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	ids := pool[:n]
	slices.Sort(ids)
	return ids
}
