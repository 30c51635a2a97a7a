package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roastline/roastline/internal/docstore"
	"github.com/roastline/roastline/internal/opsday"
)

// Writer persists one aggregate document per operational day.
type Writer struct {
	store docstore.Store
}

// NewWriter builds a writer over the given store.
func NewWriter(store docstore.Store) *Writer {
	return &Writer{store: store}
}

// ArchiveKey addresses the day's aggregate: year, zero-padded month label,
// day key.
func ArchiveKey(day opsday.Day) docstore.Key {
	return docstore.Key{
		Partition: docstore.PartitionArchiveDaily,
		Path:      []string{fmt.Sprintf("%d", day.Year), day.MonthLabel, day.Key},
	}
}

// WriteDay merge-upserts the day's KPI fields. Only these fields and the
// update marker are overwritten; anything else already stored on the
// document survives, so repeated runs converge on the latest recomputation.
func (w *Writer) WriteDay(ctx context.Context, day opsday.Day, totals Totals, expenses decimal.Decimal) error {
	fields := map[string]any{
		"dayKey":      day.Key,
		"year":        day.Year,
		"monthNumber": day.MonthNumber,
		"dayNumber":   day.DayNumber,
		"startUtc":    day.Start.Format(time.RFC3339),
		"endUtc":      day.End.Format(time.RFC3339),
		"sales":       totals.Sales.InexactFloat64(),
		"cost":        totals.Cost.InexactFloat64(),
		"profit":      totals.Profit.InexactFloat64(),
		"grams":       totals.Grams,
		"drinks":      totals.Drinks,
		"snacks":      totals.Snacks,
		"expenses":    expenses.InexactFloat64(),
		"updatedAt":   docstore.ServerTimestamp,
	}
	if err := w.store.MergeSet(ctx, ArchiveKey(day), fields); err != nil {
		return fmt.Errorf("write day %s: %w", day.Key, err)
	}
	return nil
}
