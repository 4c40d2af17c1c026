// Package testkit holds the shared fixtures for storefront tests: a migrated
// in-memory database, JSON scenario files replayed against an http.Handler,
// and a transport that stands in for the Telegram Bot API and other
// outgoing calls made through pkg/http.
//
//	db := testkit.DB(t, migration.Registered())
//	k, _ := kernel.New(kernel.Deps{DB: db, Queue: q})
//	testkit.RunFile(t, k.Handler(), "testdata/catalog.json")
package testkit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

var dbSeq atomic.Int64

// DB opens a private in-memory SQLite database, applies entries and closes
// it when the test ends.
func DB(t testing.TB, entries []migration.Entry) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.NewWith(db, nil, entries).Run())
	return db
}
