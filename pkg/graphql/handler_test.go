package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/graphql"
)

func testSchema(t *testing.T) gql.Schema {
	t.Helper()
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"greet": &gql.Field{
				Type: gql.String,
				Args: gql.FieldConfigArgument{
					"name": &gql.ArgumentConfig{Type: gql.String, DefaultValue: "world"},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					return "hello " + p.Args["name"].(string), nil
				},
			},
		},
	})
	schema, err := graphql.NewSchema(query)
	require.NoError(t, err)
	return schema
}

type result struct {
	Data   map[string]any   `json:"data"`
	Errors []map[string]any `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) result {
	t.Helper()
	var out result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPostWithVariables(t *testing.T) {
	h := graphql.Handler(testSchema(t))
	body := `{"query":"query($n: String){ greet(name: $n) }","variables":{"n":"shop"}}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello shop", decode(t, rec).Data["greet"])
}

func TestGetQuery(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graphql?query="+url.QueryEscape("{ greet }"), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello world", decode(t, rec).Data["greet"])
}

func TestQueryErrorsStay200(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(`{"query":"{ nope }"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode(t, rec).Errors)
}

func TestRejectsBadRequests(t *testing.T) {
	h := graphql.Handler(testSchema(t))

	cases := []struct {
		method, body string
		want         int
	}{
		{http.MethodPost, `{"query":""}`, http.StatusBadRequest},
		{http.MethodPost, `{not json`, http.StatusBadRequest},
		{http.MethodDelete, ``, http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, "/api/graphql", strings.NewReader(tc.body)))
		assert.Equal(t, tc.want, rec.Code, tc.method+" "+tc.body)
	}
}
