package handlers

import (
	"net/http"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/internal/export"
	"github.com/dmitrymomot/lingo/pkg/conditional"
)

// Export serves the cacheable key -> content export.
type Export struct {
	export *export.Service
}

// NewExport creates the export handler.
func NewExport(svc *export.Service) *Export {
	return &Export{export: svc}
}

// Routes declares the export route.
func (h *Export) Routes(r internal.Router) {
	r.GET("/api/translations/export", h.export)
}

func (h *Export) export(c internal.Context) error {
	res, err := h.export.Export(c, export.Request{
		Identity: requestIdentity(c.Request()),
		Filter: catalog.ExportFilter{
			Locale: c.Query("locale"),
			Tags:   exportTags(c.Request()),
		},
		IfNoneMatch:     c.Header("If-None-Match"),
		IfModifiedSince: c.Header("If-Modified-Since"),
	})
	if err != nil {
		return err
	}

	conditional.Apply(c.Response(), res.Validator, h.export.Policy())
	if res.NotModified {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSON(http.StatusOK, res.Body)
}

// exportTags returns nil when the tags parameter is absent. A present but
// blank parameter yields an empty, non-nil list that matches no row.
func exportTags(r *http.Request) []string {
	q := r.URL.Query()
	if !q.Has("tags") {
		return nil
	}
	if tags := catalog.ParseTags(q.Get("tags")); tags != nil {
		return tags
	}
	return []string{}
}

// requestIdentity is the full URL as received: scheme, host, path, and raw query.
func requestIdentity(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
