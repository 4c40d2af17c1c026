// Package ctx provides the request context passed to storefront handlers.
//
// Instead of (http.ResponseWriter, *http.Request) a handler receives a single
// *Context with helpers for params, binding and JSON responses:
//
//	func (h *ProductController) Show(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    if !ok {
//	        return
//	    }
//	    c.JSON(http.StatusOK, product)
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a positive integer path parameter. On failure it writes a
// 400 and returns false.
func (c *Context) ParamID(key string) (uint, bool) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", key, raw))
		return 0, false
	}
	return uint(id), true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Body reads the raw request body; it can only be read once.
func (c *Context) Body() ([]byte, error) {
	return io.ReadAll(c.R.Body)
}

// ClientIP returns the client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	return ClientIP(c.R)
}

// ClientIP extracts the caller's address from r; shared with middleware.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes and validates the JSON body into dest. On failure it sends
// a 400 (malformed JSON or field errors) and returns false.
//
//	var in OrderInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// Error sends {"error": message}.
func (c *Context) Error(code int, message string) {
	response.Error(c.W, code, message)
}

// ValidationError sends a 400 with the first field reason as the message.
func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.W, summarize(errs), errs)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	msg := "Unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusUnauthorized, msg)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	fmt.Fprintf(c.W, format, args...)
}

// summarize picks a stable "field reason" line for the top-level message.
func summarize(errs map[string]string) string {
	first := ""
	for field := range errs {
		if first == "" || field < first {
			first = field
		}
	}
	if first == "" {
		return "validation failed"
	}
	return first + " " + errs[first]
}
