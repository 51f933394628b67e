package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/internal/catalog/catalogtest"
	"github.com/dmitrymomot/lingo/internal/export"
	"github.com/dmitrymomot/lingo/internal/handlers"
	"github.com/dmitrymomot/lingo/pkg/conditional"
)

var now = time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)

func newApp(t *testing.T, store *catalogtest.Store, opts ...export.Option) *internal.App {
	t.Helper()
	store.SetClock(func() time.Time { return now })
	opts = append([]export.Option{export.WithClock(func() time.Time { return now })}, opts...)
	return internal.New(
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithHandlers(
			handlers.NewExport(export.NewService(store, opts...)),
			handlers.NewTranslations(catalog.NewService(store)),
		),
	)
}

func do(t *testing.T, app http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Errors  map[string][]string `json:"errors"`
	Message string              `json:"message"`
}

type record struct {
	Locale  string `json:"locale"`
	Key     string `json:"key"`
	Content string `json:"content"`
	Tags    []struct {
		Name string `json:"name"`
		ID   int64  `json:"id"`
	} `json:"tags"`
	ID int64 `json:"id"`
}

func (r record) tagNames() []string {
	names := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		names[i] = t.Name
	}
	return names
}

func TestCreateThenExport(t *testing.T) {
	t.Parallel()

	store := catalogtest.New("mobile", "web", "backend")
	app := newApp(t, store)

	rec := do(t, app, http.MethodPost, "/api/translations",
		`{"locale":"en","key":"app.title","content":"My App","tags":["mobile","web"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[record](t, rec)
	assert.Equal(t, "app.title", created.Key)
	assert.ElementsMatch(t, []string{"mobile", "web"}, created.tagNames())
	assert.Equal(t, "/api/translations/1", rec.Header().Get("Location"))

	rec = do(t, app, http.MethodGet, "/api/translations/export?locale=en&tags=mobile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "My App", body["app.title"])
}

func TestExport(t *testing.T) {
	t.Parallel()

	seed := func() *catalogtest.Store {
		store := catalogtest.New("mobile", "web", "backend")
		store.Seed("en", "app.title", "My App", now.Add(-2*time.Hour), "mobile")
		store.Seed("en", "api.error", "Oops", now.Add(-time.Hour), "backend")
		return store
	}

	t.Run("headers on 200", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "")
		require.Equal(t, http.StatusOK, rec.Code)
		etag := conditional.ETag("http://example.com/api/translations/export?locale=en", now.Add(-time.Hour))
		assert.Equal(t, `"`+etag+`"`, rec.Header().Get("ETag"))
		assert.Equal(t, now.Add(-time.Hour).Format(http.TimeFormat), rec.Header().Get("Last-Modified"))
		assert.Equal(t, "public, max-age=60, s-maxage=300", rec.Header().Get("Cache-Control"))
		assert.JSONEq(t, `{"app.title":"My App","api.error":"Oops"}`, rec.Body.String())
	})

	t.Run("any-tag semantics", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en&tags=mobile,web", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"app.title":"My App"}`, rec.Body.String())
	})

	t.Run("blank tags parameter matches nothing", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		for _, query := range []string{"&tags=", "&tags=,%20,"} {
			rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en"+query, "")
			require.Equal(t, http.StatusOK, rec.Code, query)
			assert.JSONEq(t, `{}`, rec.Body.String(), query)
		}

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en&tags=mobile,", "")
		assert.JSONEq(t, `{"app.title":"My App"}`, rec.Body.String())
	})

	t.Run("revalidation with etag", func(t *testing.T) {
		t.Parallel()
		store := seed()
		app := newApp(t, store)

		first := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "")
		etag := first.Header().Get("ETag")
		require.NotEmpty(t, etag)

		for _, header := range []string{etag, strings.Trim(etag, `"`)} {
			rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "", "If-None-Match", header)
			assert.Equal(t, http.StatusNotModified, rec.Code)
			assert.Empty(t, rec.Body.String())
			assert.Equal(t, etag, rec.Header().Get("ETag"))
			assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
		}
		assert.EqualValues(t, 1, store.ProjectCalls.Load())
	})

	t.Run("revalidation with date", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "",
			"If-Modified-Since", now.Format(http.TimeFormat))
		assert.Equal(t, http.StatusNotModified, rec.Code)

		rec = do(t, app, http.MethodGet, "/api/translations/export?locale=en", "",
			"If-Modified-Since", now.Add(-90*time.Minute).Format(http.TimeFormat))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("write invalidates etag", func(t *testing.T) {
		t.Parallel()
		store := seed()
		app := newApp(t, store)

		etag := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "").Header().Get("ETag")
		rec := do(t, app, http.MethodPatch, "/api/translations/1", `{"content":"Renamed"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, app, http.MethodGet, "/api/translations/export?locale=en", "", "If-None-Match", etag)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Renamed")
	})

	t.Run("empty view", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=fr", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "{}", rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("ETag"))
		assert.Equal(t, now.Format(http.TimeFormat), rec.Header().Get("Last-Modified"))
	})

	t.Run("export only checks locale length", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, seed())

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en%20us", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "{}", rec.Body.String())
	})

	t.Run("missing locale", func(t *testing.T) {
		t.Parallel()
		store := seed()
		app := newApp(t, store)

		rec := do(t, app, http.MethodGet, "/api/translations/export", "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[errorBody](t, rec)
		assert.Contains(t, body.Errors, "locale")
		assert.Zero(t, store.ProjectCalls.Load())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		store := seed()
		store.Fail = errors.New("db down")
		app := newApp(t, store)

		rec := do(t, app, http.MethodGet, "/api/translations/export?locale=en", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Header().Get("ETag"))
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	store := catalogtest.New("mobile", "web")
	for i := range 60 {
		tag := "web"
		if i%2 == 0 {
			tag = "mobile"
		}
		store.Seed("en", "key."+string(rune('a'+i%26)), "Content", now, tag)
	}
	store.Seed("fr", "fr.only", "Bonjour", now)
	app := newApp(t, store)

	type page struct {
		From        *int     `json:"from"`
		To          *int     `json:"to"`
		Data        []record `json:"data"`
		Total       int64    `json:"total"`
		CurrentPage int      `json:"current_page"`
		PerPage     int      `json:"per_page"`
		LastPage    int      `json:"last_page"`
	}

	t.Run("first page", func(t *testing.T) {
		t.Parallel()
		rec := do(t, app, http.MethodGet, "/api/translations", "")
		require.Equal(t, http.StatusOK, rec.Code)
		p := decode[page](t, rec)
		assert.Len(t, p.Data, 50)
		assert.EqualValues(t, 61, p.Total)
		assert.Equal(t, 50, p.PerPage)
		assert.Equal(t, 2, p.LastPage)
		require.NotNil(t, p.From)
		assert.Equal(t, 1, *p.From)
		assert.Equal(t, 50, *p.To)
	})

	t.Run("second page", func(t *testing.T) {
		t.Parallel()
		p := decode[page](t, do(t, app, http.MethodGet, "/api/translations?page=2", ""))
		assert.Len(t, p.Data, 11)
		assert.Equal(t, 2, p.CurrentPage)
		assert.Equal(t, 51, *p.From)
	})

	t.Run("filters", func(t *testing.T) {
		t.Parallel()
		p := decode[page](t, do(t, app, http.MethodGet, "/api/translations?locale=en&tag=mobile", ""))
		assert.EqualValues(t, 30, p.Total)

		p = decode[page](t, do(t, app, http.MethodGet, "/api/translations?content=Bon", ""))
		require.Len(t, p.Data, 1)
		assert.Equal(t, "fr.only", p.Data[0].Key)

		p = decode[page](t, do(t, app, http.MethodGet, "/api/translations?tag=Mobile", ""))
		assert.Zero(t, p.Total, "tag match is exact")
	})

	t.Run("empty page", func(t *testing.T) {
		t.Parallel()
		rec := do(t, app, http.MethodGet, "/api/translations?locale=de", "")
		p := decode[page](t, rec)
		assert.NotNil(t, p.Data)
		assert.Nil(t, p.From)
		assert.Equal(t, 1, p.LastPage)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("huge page number", func(t *testing.T) {
		t.Parallel()
		rec := do(t, app, http.MethodGet, "/api/translations?page=200000000000000000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		p := decode[page](t, rec)
		assert.Empty(t, p.Data)
		assert.EqualValues(t, 61, p.Total)
		assert.Equal(t, 200000000000000000, p.CurrentPage)
		assert.Nil(t, p.From)
		assert.Nil(t, p.To)
	})
}

func TestShow(t *testing.T) {
	t.Parallel()

	store := catalogtest.New("mobile")
	store.Seed("en", "app.title", "My App", now, "mobile")
	store.Seed("en", "plain", "Plain", now)
	app := newApp(t, store)

	rec := do(t, app, http.MethodGet, "/api/translations/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"mobile"}, decode[record](t, rec).tagNames())

	rec = do(t, app, http.MethodGet, "/api/translations/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tags":[]`)

	rec = do(t, app, http.MethodGet, "/api/translations/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found.", decode[errorBody](t, rec).Message)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body   string
		fields []string
	}{
		"missing fields":    {`{}`, []string{"locale", "key", "content"}},
		"empty body":        {``, []string{"locale", "key", "content"}},
		"locale too long":   {`{"locale":"abcdefghijk","key":"k","content":"c"}`, []string{"locale"}},
		"malformed locale":  {`{"locale":"en us","key":"k","content":"c"}`, []string{"locale"}},
		"wrong types":       {`{"locale":1,"key":"k","content":"c","tags":"mobile"}`, []string{"locale", "tags"}},
		"tag item not text": {`{"locale":"en","key":"k","content":"c","tags":[1]}`, []string{"tags.0"}},
		"unknown tag":       {`{"locale":"en","key":"k","content":"c","tags":["mobile","tv"]}`, []string{"tags.1"}},
		"null locale":       {`{"locale":null,"key":"k","content":"c"}`, []string{"locale"}},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := catalogtest.New("mobile")
			app := newApp(t, store)

			rec := do(t, app, http.MethodPost, "/api/translations", tc.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			body := decode[errorBody](t, rec)
			for _, f := range tc.fields {
				assert.Contains(t, body.Errors, f)
			}
			assert.NotEmpty(t, body.Message)
			assert.Zero(t, store.Len(), "nothing persisted")
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		app := newApp(t, catalogtest.New())
		rec := do(t, app, http.MethodPost, "/api/translations", `{"locale":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	setup := func() (*catalogtest.Store, *internal.App) {
		store := catalogtest.New("mobile", "web", "backend")
		store.Seed("en", "app.title", "My App", now.Add(-time.Hour), "mobile", "web")
		return store, newApp(t, store)
	}

	t.Run("partial fields keep tags", func(t *testing.T) {
		t.Parallel()
		store, app := setup()

		rec := do(t, app, http.MethodPatch, "/api/translations/1", `{"content":"New"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[record](t, rec)
		assert.Equal(t, "New", got.Content)
		assert.Equal(t, "app.title", got.Key)
		assert.Equal(t, []string{"mobile", "web"}, store.TagNames(1))
	})

	t.Run("replace and clear tags", func(t *testing.T) {
		t.Parallel()
		store, app := setup()

		rec := do(t, app, http.MethodPut, "/api/translations/1", `{"tags":["backend"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"backend"}, store.TagNames(1))

		rec = do(t, app, http.MethodPatch, "/api/translations/1", `{"tags":[]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, store.TagNames(1))
	})

	t.Run("idempotent tags", func(t *testing.T) {
		t.Parallel()
		store, app := setup()

		for range 2 {
			rec := do(t, app, http.MethodPatch, "/api/translations/1", `{"tags":["mobile","web"]}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, []string{"mobile", "web"}, store.TagNames(1))
	})

	t.Run("empty key is invalid", func(t *testing.T) {
		t.Parallel()
		store, app := setup()

		rec := do(t, app, http.MethodPatch, "/api/translations/1", `{"key":"","tags":["backend"]}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"mobile", "web"}, store.TagNames(1), "not partially applied")
	})

	t.Run("not found wins over invalid input", func(t *testing.T) {
		t.Parallel()
		_, app := setup()

		rec := do(t, app, http.MethodPatch, "/api/translations/42", `{"key":""}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, app, http.MethodPatch, "/api/translations/42", `{"key":1}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		t.Parallel()
		_, app := setup()

		rec := do(t, app, http.MethodPatch, "/api/translations/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "My App", decode[record](t, rec).Content)
	})
}

func TestTags(t *testing.T) {
	t.Parallel()

	app := newApp(t, catalogtest.New("web", "backend"))
	rec := do(t, app, http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[{"id":2,"name":"backend"},{"id":1,"name":"web"}]}`, rec.Body.String())
}
