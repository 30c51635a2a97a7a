// Package archive computes the per-operational-day KPI aggregates and keeps
// the daily archive partition up to date. The reconciliation rules live in
// reconcile.go; fetching and writing are thin layers over the docstore.
package archive

import (
	"time"

	"github.com/roastline/roastline/internal/coerce"
	"github.com/roastline/roastline/internal/docstore"
)

// Sale types recognized by the category tallies.
const (
	TypeDrink       = "drink"
	TypeSingle      = "single"
	TypeReadyBlend  = "ready_blend"
	TypeCustomBlend = "custom_blend"
	TypeExtra       = "extra"
)

// PaymentEvent is one partial payment against a deferred sale.
type PaymentEvent struct {
	Amount float64
	At     *time.Time
}

// Sale is the decoded, defensively coerced view of a POS sale document.
// Timestamp pointers are nil when the stored value was absent or unparseable.
type Sale struct {
	ID   string
	Type string

	Quantity   float64
	Grams      float64
	TotalGrams float64

	TotalPrice       float64
	TotalCost        float64
	ProfitTotal      float64
	ParentTotalPrice float64

	Complimentary bool
	Deferred      bool
	// Paid reflects the stored flag; when the field is absent it defaults
	// to !Deferred (a non-deferred sale is implicitly settled at the till).
	Paid bool

	CreatedAt         *time.Time
	OriginalCreatedAt *time.Time
	SettledAt         *time.Time
	UpdatedAt         *time.Time
	LastPaymentAt     *time.Time
	LastPaymentAmount float64

	Payments []PaymentEvent
}

// DecodeSale maps a raw document onto a Sale. fromDeferredPartition forces
// the deferred flag on: partition membership is authoritative over a
// possibly stale stored field.
func DecodeSale(doc docstore.Document, fromDeferredPartition bool) Sale {
	f := doc.Fields
	deferred := coerce.Bool(f["is_deferred"]) || fromDeferredPartition

	paid := !deferred
	if raw, ok := f["paid"]; ok && raw != nil {
		paid = coerce.Bool(raw)
	}

	s := Sale{
		ID:                doc.ID,
		Type:              stringField(f, "type"),
		Quantity:          coerce.Number(f["quantity"]),
		Grams:             coerce.Number(f["grams"]),
		TotalGrams:        coerce.Number(f["total_grams"]),
		TotalPrice:        coerce.Number(f["total_price"]),
		TotalCost:         coerce.Number(f["total_cost"]),
		ProfitTotal:       coerce.Number(f["profit_total"]),
		ParentTotalPrice:  coerce.Number(f["parent_total_price"]),
		Complimentary:     coerce.Bool(f["is_complimentary"]),
		Deferred:          deferred,
		Paid:              paid,
		CreatedAt:         timeField(f, "created_at"),
		OriginalCreatedAt: timeField(f, "original_created_at"),
		SettledAt:         timeField(f, "settled_at"),
		UpdatedAt:         timeField(f, "updated_at"),
		LastPaymentAt:     timeField(f, "last_payment_at"),
		LastPaymentAmount: coerce.Number(f["last_payment_amount"]),
		Payments:          paymentEvents(f["payment_events"]),
	}
	return s
}

// Expense is the decoded view of an expense document.
type Expense struct {
	ID        string
	Amount    float64
	CreatedAt *time.Time
}

// DecodeExpense maps a raw expense document.
func DecodeExpense(doc docstore.Document) Expense {
	return Expense{
		ID:        doc.ID,
		Amount:    coerce.Number(doc.Fields["amount"]),
		CreatedAt: timeField(doc.Fields, "created_at"),
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func timeField(fields map[string]any, key string) *time.Time {
	ts, ok := coerce.Timestamp(fields[key])
	if !ok {
		return nil
	}
	return &ts
}

func paymentEvents(raw any) []PaymentEvent {
	var list []any
	switch v := raw.(type) {
	case []any:
		list = v
	case []map[string]any:
		list = make([]any, len(v))
		for i, entry := range v {
			list[i] = entry
		}
	default:
		return nil
	}
	events := make([]PaymentEvent, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ev := PaymentEvent{Amount: coerce.Number(entry["amount"])}
		if ts, ok := coerce.Timestamp(entry["at"]); ok {
			ev.At = &ts
		}
		events = append(events, ev)
	}
	return events
}
