package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario is one request and its expected outcome. Files hold an array of
// scenarios that run in order against the same handler, so later steps see
// the state earlier ones created.
type Scenario struct {
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Body         json.RawMessage   `json:"body"`
	ExpectedCode int               `json:"expectedCode"`

	// Expect is matched as a subset of the response body: objects may carry
	// extra keys, arrays must have the same length.
	Expect json.RawMessage `json:"expect"`
}

// LoadFile reads a scenario array.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var scenarios []Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}

	for i := range scenarios {
		s := &scenarios[i]
		if s.Name == "" {
			return nil, fmt.Errorf("testkit: %q: scenario %d has no name", path, i)
		}
		if s.URL == "" {
			return nil, fmt.Errorf("testkit: %q: scenario %q has no url", path, s.Name)
		}
		if s.Method == "" {
			s.Method = http.MethodGet
		}
		if s.ExpectedCode == 0 {
			s.ExpectedCode = http.StatusOK
		}
	}
	return scenarios, nil
}

// RunFile replays every scenario in path as a subtest.
func RunFile(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	scenarios, err := LoadFile(path)
	require.NoError(t, err)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t.Run(base, func(t *testing.T) {
		for _, s := range scenarios {
			t.Run(s.Name, func(t *testing.T) {
				rec := Do(handler, s.Method, s.URL, s.Body, s.Headers)
				assert.Equal(t, s.ExpectedCode, rec.Code, "body: %s", rec.Body.String())
				if len(s.Expect) > 0 {
					AssertJSONSubset(t, s.Expect, rec.Body.Bytes())
				}
			})
		}
	})
}

// Do fires one request at handler. body may be nil, raw bytes, a string or
// any value that encodes to JSON.
func Do(handler http.Handler, method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case json.RawMessage:
		if len(b) > 0 {
			r = bytes.NewReader(b)
		}
	case []byte:
		r = bytes.NewReader(b)
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			panic(fmt.Sprintf("testkit: encode body: %v", err))
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(strings.ToUpper(method), url, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
