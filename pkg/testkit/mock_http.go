package testkit

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
)

// Stub answers outgoing requests whose URL contains Match.
type Stub struct {
	Match  string
	Status int
	Body   string
}

// Call is a recorded outgoing request.
type Call struct {
	Method string
	URL    string
	Body   string
}

// MockTransport is an http.RoundTripper that serves stubs and records every
// request. Unmatched requests get a 404 with a Bot-API style error body.
type MockTransport struct {
	mu    sync.Mutex
	stubs []Stub
	calls []Call
}

// NewMockTransport builds a transport from stubs, first match wins.
func NewMockTransport(stubs ...Stub) *MockTransport {
	return &MockTransport{stubs: stubs}
}

// TelegramOK is a stub accepting every Bot API call.
func TelegramOK() Stub {
	return Stub{Match: "/bot", Status: http.StatusOK, Body: `{"ok":true,"result":{}}`}
}

// Install puts mt on pkg/http's shared client until the test ends.
func (mt *MockTransport) Install(t testing.TB) *MockTransport {
	t.Helper()
	sfhttp.DefaultClient.Transport = mt
	t.Cleanup(sfhttp.ResetTransport)
	return mt
}

func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(data)
	}

	mt.mu.Lock()
	mt.calls = append(mt.calls, Call{Method: req.Method, URL: req.URL.String(), Body: body})
	stub, ok := mt.match(req.URL.String())
	mt.mu.Unlock()

	if !ok {
		stub = Stub{Status: http.StatusNotFound, Body: `{"ok":false,"description":"Not Found"}`}
	}
	code := stub.Status
	if code == 0 {
		code = http.StatusOK
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(stub.Body)),
		Request:    req,
	}, nil
}

func (mt *MockTransport) match(url string) (Stub, bool) {
	for _, s := range mt.stubs {
		if s.Match == "" || strings.Contains(url, s.Match) {
			return s, true
		}
	}
	return Stub{}, false
}

// Calls returns a copy of the recorded requests.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([]Call(nil), mt.calls...)
}
