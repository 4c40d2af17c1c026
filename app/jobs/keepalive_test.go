package jobs_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/jobs"
	"github.com/shashiranjanraj/storefront/app/models"
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	sfhttp "github.com/shashiranjanraj/storefront/pkg/http"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestKeepAlivePingsOwnRoute(t *testing.T) {
	db := testkit.DB(t, migration.Registered())
	require.NoError(t, db.Create(&models.Product{Name: "Widget", Price: 1}).Error)

	mt := testkit.NewMockTransport(testkit.Stub{
		Match:  "/api/ping",
		Status: http.StatusOK,
		Body:   `{"status":"active"}`,
	}).Install(t)

	jobs.NewKeepAlive(db, "5000").Run(context.Background())

	calls := mt.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "http://localhost:5000/api/ping", calls[0].URL)
	assert.Equal(t, http.MethodGet, calls[0].Method)
}

func TestKeepAliveSkipsPingWhenStoreIsDown(t *testing.T) {
	db := testkit.DB(t, nil)
	mt := testkit.NewMockTransport().Install(t)

	// products table was never created
	jobs.NewKeepAlive(db, "5000").Run(context.Background())

	assert.Empty(t, mt.Calls())
}

func TestKeepAliveRetriesPingOnce(t *testing.T) {
	db := testkit.DB(t, migration.Registered())
	t.Cleanup(sfhttp.ResetTransport)

	var calls atomic.Int32
	var agent atomic.Value
	sfhttp.DefaultClient.Transport = sfhttp.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
		agent.Store(r.Header.Get("User-Agent"))
		if calls.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"status":"active"}`)),
		}, nil
	})

	jobs.NewKeepAlive(db, "5000").Run(context.Background())

	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, "storefront-keepalive", agent.Load())
}
