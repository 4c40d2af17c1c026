package testkit

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// JSON decodes the recorder body into a generic value.
func JSON(t testing.TB, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// AssertJSONSubset fails when actual does not contain expected.
func AssertJSONSubset(t testing.TB, expected, actual []byte) bool {
	t.Helper()

	var exp, act any
	require.NoError(t, json.Unmarshal(expected, &exp), "expected is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "response is not valid JSON: %s", actual) {
		return false
	}

	diffs := Diff("", exp, act)
	for _, d := range diffs {
		t.Errorf("%s", d)
	}
	if len(diffs) > 0 {
		t.Logf("response: %s", actual)
	}
	return len(diffs) == 0
}

// Diff lists the places where actual does not contain expected.
func Diff(path string, expected, actual any) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return append(diffs, fmt.Sprintf("%s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("%s: missing", p))
				continue
			}
			diffs = append(diffs, Diff(p, ev, av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return append(diffs, fmt.Sprintf("%s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			return append(diffs, fmt.Sprintf("%s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := range exp {
			diffs = append(diffs, Diff(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if expected != actual {
			diffs = append(diffs, fmt.Sprintf("%s: expected %v, got %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "$"
	}
	return path
}
