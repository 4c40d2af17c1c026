package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestParseOrderStatus(t *testing.T) {
	st, ok := models.ParseOrderStatus("shipped")
	assert.True(t, ok)
	assert.Equal(t, models.StatusShipped, st)

	_, ok = models.ParseOrderStatus("lost")
	assert.False(t, ok)
	_, ok = models.ParseOrderStatus("")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusShipped, false},
		{models.StatusProcessing, models.StatusShipped, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
		{models.StatusDelivered, models.StatusDelivered, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}

	assert.True(t, models.StatusDelivered.Terminal())
	assert.True(t, models.StatusCancelled.Terminal())
	assert.False(t, models.StatusShipped.Terminal())
}

func TestDecodeLines(t *testing.T) {
	lines := models.DecodeLines(`[{"name":"Widget","quantity":2},{"id":9}]`)
	assert.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":9}`, string(lines[1]))

	assert.Empty(t, models.DecodeLines("not json"))
	assert.NotNil(t, models.DecodeLines(""))
	assert.Empty(t, models.DecodeLines("null"))
}

func TestOrderEncodesLinesAsItems(t *testing.T) {
	o := models.Order{ID: 3, Items: `[{"x":1}]`, Status: models.StatusPending}
	o.Lines = models.DecodeLines(o.Items)

	data, err := json.Marshal(o)
	assert.NoError(t, err)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, []any{map[string]any{"x": 1.0}}, out["items"])
	assert.Equal(t, "pending", out["status"])
}

func TestParseItems(t *testing.T) {
	lines := models.DecodeLines(`[
		{"name":"Widget","quantity":2,"price":100,"discount":20},
		{"name":"Gadget","quantity":1,"price":50,"finalPrice":45},
		"garbage"
	]`)

	items := models.ParseItems(lines)
	assert.Len(t, items, 2)
	assert.Equal(t, 80.0, items[0].Final())
	assert.Equal(t, 45.0, items[1].Final())
}
