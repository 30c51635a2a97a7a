package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roastline/roastline/internal/docstore"
)

func TestDecodeSalePaidDefaults(t *testing.T) {
	// Absent paid flag on a regular sale means settled at the till.
	sale := DecodeSale(docstore.Document{ID: "a", Fields: map[string]any{}}, false)
	assert.False(t, sale.Deferred)
	assert.True(t, sale.Paid)

	// Absent paid flag on a deferred sale means still owing.
	sale = DecodeSale(docstore.Document{ID: "b", Fields: map[string]any{"is_deferred": true}}, false)
	assert.True(t, sale.Deferred)
	assert.False(t, sale.Paid)

	// A stored flag always wins.
	sale = DecodeSale(docstore.Document{ID: "c", Fields: map[string]any{"is_deferred": true, "paid": true}}, false)
	assert.True(t, sale.Paid)
}

func TestDecodeSaleDeferredPartitionIsAuthoritative(t *testing.T) {
	doc := docstore.Document{ID: "a", Fields: map[string]any{"is_deferred": false}}
	sale := DecodeSale(doc, true)
	assert.True(t, sale.Deferred)
	// And the paid default follows the forced flag.
	assert.False(t, sale.Paid)
}

func TestDecodeSaleLooseValues(t *testing.T) {
	doc := docstore.Document{ID: "a", Fields: map[string]any{
		"type":        "custom_blend",
		"quantity":    "2,5",
		"total_grams": float64(400),
		"total_price": "99,9",
		"created_at":  "2024-03-10T10:00:00Z",
		"settled_at":  "not a date",
	}}
	sale := DecodeSale(doc, false)
	assert.Equal(t, TypeCustomBlend, sale.Type)
	assert.Equal(t, 2.5, sale.Quantity)
	assert.Equal(t, 400.0, sale.TotalGrams)
	assert.Equal(t, 99.9, sale.TotalPrice)
	require.NotNil(t, sale.CreatedAt)
	assert.Nil(t, sale.SettledAt)
}

func TestDecodeSalePaymentEvents(t *testing.T) {
	doc := docstore.Document{ID: "a", Fields: map[string]any{
		"is_deferred": true,
		"payment_events": []any{
			map[string]any{"amount": float64(40), "at": "2024-03-10T10:00:00Z"},
			map[string]any{"amount": "60", "at": int64(1710064800)},
			"not an event",
		},
	}}
	sale := DecodeSale(doc, false)
	require.Len(t, sale.Payments, 2)
	assert.Equal(t, 40.0, sale.Payments[0].Amount)
	require.NotNil(t, sale.Payments[1].At)
	assert.Equal(t, 60.0, sale.Payments[1].Amount)
	assert.True(t, sale.Payments[1].At.Equal(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)))
}

func TestDecodeExpense(t *testing.T) {
	exp := DecodeExpense(docstore.Document{ID: "e", Fields: map[string]any{
		"amount":     "12,5",
		"created_at": "2024-03-10T10:00:00Z",
	}})
	assert.Equal(t, 12.5, exp.Amount)
	require.NotNil(t, exp.CreatedAt)
}
