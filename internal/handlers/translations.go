package handlers

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
)

// Translations serves CRUD and listing for translations and tags.
type Translations struct {
	catalog *catalog.Service
}

// NewTranslations creates the translations handler.
func NewTranslations(svc *catalog.Service) *Translations {
	return &Translations{catalog: svc}
}

// Routes declares the CRUD routes.
func (h *Translations) Routes(r internal.Router) {
	r.GET("/api/tags", h.tags)
	r.GET("/api/translations", h.list)
	r.POST("/api/translations", h.create)
	r.GET("/api/translations/{id:[0-9]+}", h.show)
	r.PATCH("/api/translations/{id:[0-9]+}", h.update)
	r.PUT("/api/translations/{id:[0-9]+}", h.update)
}

type tagResource struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

type translationResource struct {
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Locale    string        `json:"locale"`
	Key       string        `json:"key"`
	Content   string        `json:"content"`
	Tags      []tagResource `json:"tags"`
	ID        int64         `json:"id"`
}

func newTranslationResource(t catalog.Translation) translationResource {
	tags := make([]tagResource, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = tagResource{ID: tag.ID, Name: tag.Name}
	}
	return translationResource{
		ID:        t.ID,
		Locale:    t.Locale,
		Key:       t.Key,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Tags:      tags,
	}
}

type pageResource struct {
	From        *int                  `json:"from"`
	To          *int                  `json:"to"`
	Data        []catalog.Translation `json:"data"`
	Total       int64                 `json:"total"`
	CurrentPage int                   `json:"current_page"`
	PerPage     int                   `json:"per_page"`
	LastPage    int                   `json:"last_page"`
}

func newPageResource(p catalog.Page) pageResource {
	res := pageResource{
		Data:        p.Items,
		Total:       p.Total,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		LastPage:    p.LastPage(),
	}
	if len(p.Items) > 0 {
		from, to := p.From(), p.To()
		res.From, res.To = &from, &to
	}
	return res
}

func (h *Translations) list(c internal.Context) error {
	f := catalog.ListFilter{
		Locale:  c.Query("locale"),
		Tag:     c.Query("tag"),
		Key:     c.Query("key"),
		Content: c.Query("content"),
	}
	page, err := h.catalog.List(c, f, internal.QueryInt(c, "page", 1))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPageResource(page))
}

func (h *Translations) show(c internal.Context) error {
	id, ok := internal.ParamInt64(c, "id")
	if !ok {
		return catalog.ErrNotFound
	}
	t, err := h.catalog.Get(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTranslationResource(t))
}

func (h *Translations) create(c internal.Context) error {
	in, err := bindCreate(c)
	if err != nil {
		return err
	}
	t, err := h.catalog.Create(c, in)
	if err != nil {
		return err
	}
	c.SetHeader("Location", "/api/translations/"+formatID(t.ID))
	return c.JSON(http.StatusCreated, newTranslationResource(t))
}

func (h *Translations) update(c internal.Context) error {
	id, ok := internal.ParamInt64(c, "id")
	if !ok {
		return catalog.ErrNotFound
	}
	in, err := bindUpdate(c)
	if err != nil {
		// a missing record wins over a malformed payload
		if _, getErr := h.catalog.Get(c, id); getErr != nil {
			return getErr
		}
		return err
	}
	t, err := h.catalog.Update(c, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTranslationResource(t))
}

func (h *Translations) tags(c internal.Context) error {
	tags, err := h.catalog.Tags(c)
	if err != nil {
		return err
	}
	out := make([]tagResource, len(tags))
	for i, t := range tags {
		out[i] = tagResource{ID: t.ID, Name: t.Name}
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}
