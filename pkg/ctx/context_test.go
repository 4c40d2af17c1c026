package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, decode(t, rec)["ok"])
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Widget","price":10}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name  string  `json:"name"  validate:"required"`
			Price float64 `json:"price" validate:"gte=0"`
		}
		require.True(t, c.BindJSON(&input))
		assert.Equal(t, "Widget", input.Name)
		c.JSON(http.StatusOK, nil)
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindJSONValidationFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","price":-1}`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name  string  `json:"name"  validate:"required"`
			Price float64 `json:"price" validate:"gte=0"`
		}
		assert.False(t, c.BindJSON(&input))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "name is required", body["error"])
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "price")
}

func TestBindJSONMalformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name"`
		}
		assert.False(t, c.BindJSON(&input))
	})(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "invalid JSON")
}

func TestParamID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/items/{id}", appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.ParamID("id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, map[string]uint{"id": id})
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, decode(t, rec)["id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	assert.Equal(t, "1.2.3.4", appctx.ClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:5555"
	assert.Equal(t, "192.168.1.9", appctx.ClientIP(req))
}

func TestErrorHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) { c.NotFound("Product not found") })(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode(t, rec)["error"])
}

func TestString(t *testing.T) {
	rec := httptest.NewRecorder()
	appctx.Wrap(func(c *appctx.Context) { c.String(http.StatusOK, "API is up") })(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "API is up", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
