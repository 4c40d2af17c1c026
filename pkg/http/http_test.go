package http_test

import (
	"context"
	"errors"
	"io"
	gohttp "net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/http"
)

func reply(status int, body string) *gohttp.Response {
	return &gohttp.Response{
		StatusCode: status,
		Header:     gohttp.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	defer http.ResetTransport()

	var gotBody, gotCT, gotAccept string
	http.DefaultClient.Transport = http.RoundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotCT = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		return reply(200, `{"ok":true}`), nil
	})

	resp, err := http.Post("https://api.example.com/send").
		Header("Accept", "application/vnd.example+json").
		Body(map[string]any{"chat_id": "@shop"}).
		Send()
	require.NoError(t, err)
	require.NoError(t, resp.Throw())

	var out struct{ OK bool }
	require.NoError(t, resp.JSON(&out))
	assert.True(t, out.OK)
	assert.JSONEq(t, `{"chat_id":"@shop"}`, gotBody)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "application/vnd.example+json", gotAccept)
}

func TestRetryOnTransportError(t *testing.T) {
	defer http.ResetTransport()

	var calls atomic.Int32
	http.DefaultClient.Transport = http.RoundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		if calls.Add(1) < 3 {
			return nil, errors.New("connection reset")
		}
		return reply(200, `{}`), nil
	})

	_, err := http.Get("http://localhost/api/ping").Retry(3, time.Millisecond).Send()
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestErrorsHideURLPath(t *testing.T) {
	defer http.ResetTransport()

	http.DefaultClient.Transport = http.RoundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		return nil, errors.New("dial failed")
	})

	_, err := http.Post("https://api.telegram.org/botSECRET/sendMessage").Send()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestThrowOnNon2xx(t *testing.T) {
	defer http.ResetTransport()

	http.DefaultClient.Transport = http.RoundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		return reply(400, `{"ok":false,"description":"chat not found"}`), nil
	})

	resp, err := http.Post("https://api.example.com").Send()
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.ErrorContains(t, resp.Throw(), "chat not found")
}

func TestContextCancelStopsRetries(t *testing.T) {
	defer http.ResetTransport()

	var calls atomic.Int32
	http.DefaultClient.Transport = http.RoundTripFunc(func(r *gohttp.Request) (*gohttp.Response, error) {
		calls.Add(1)
		return nil, errors.New("down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := http.Get("http://localhost").WithContext(ctx).Retry(5, time.Second).Send()
	require.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}
