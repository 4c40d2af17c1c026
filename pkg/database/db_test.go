package database_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

func TestOpenSQLiteAndInstrument(t *testing.T) {
	db, err := database.Open("sqlite", "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)
	defer database.Close(db)

	before := testutil.CollectAndCount(metrics.DBQueryDuration)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), before)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), 1)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestCloseNil(t *testing.T) {
	assert.NoError(t, database.Close(nil))
}
