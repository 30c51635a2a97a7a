package archive

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/roastline/roastline/internal/docstore"
)

// saleTimestampFields are the dimensions a sale may fall into a window on.
// There is no single canonical in-window field: a sale created yesterday can
// settle or receive a payment today, so every field is queried independently
// and the results are unioned by identity.
var saleTimestampFields = []string{
	"created_at",
	"original_created_at",
	"settled_at",
	"updated_at",
	"last_payment_at",
}

// salePartitions are the partitions that may hold sale-like documents.
var salePartitions = []string{
	docstore.PartitionSales,
	docstore.PartitionDeferredSales,
}

// Fetcher pulls candidate records for a UTC window from the document store.
type Fetcher struct {
	store docstore.Store
}

// NewFetcher builds a fetcher over the given store.
func NewFetcher(store docstore.Store) *Fetcher {
	return &Fetcher{store: store}
}

// FetchSales returns every sale whose any relevant timestamp falls in
// [start, end), de-duplicated by identity. The per-field, per-partition
// queries run concurrently; merging afterwards is order-independent because
// duplicate fetches of one identity carry identical document data.
func (f *Fetcher) FetchSales(ctx context.Context, start, end time.Time) ([]Sale, error) {
	var (
		mu         sync.Mutex
		combined   = make(map[string]docstore.Document)
		deferredID = make(map[string]bool)
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, partition := range salePartitions {
		for _, field := range saleTimestampFields {
			partition, field := partition, field
			g.Go(func() error {
				docs, err := f.store.RangeQuery(ctx, partition, field, start, end)
				if err != nil {
					return fmt.Errorf("fetch sales %s.%s: %w", partition, field, err)
				}
				mu.Lock()
				defer mu.Unlock()
				for _, doc := range docs {
					combined[doc.ID] = doc
					if partition == docstore.PartitionDeferredSales {
						deferredID[doc.ID] = true
					}
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sales := make([]Sale, 0, len(combined))
	for id, doc := range combined {
		sales = append(sales, DecodeSale(doc, deferredID[id]))
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].ID < sales[j].ID })
	return sales, nil
}

// FetchExpenses sums the expense amounts recorded inside [start, end).
func (f *Fetcher) FetchExpenses(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	docs, err := f.store.RangeQuery(ctx, docstore.PartitionExpenses, "created_at", start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch expenses: %w", err)
	}
	total := decimal.Zero
	for _, doc := range docs {
		total = total.Add(decimal.NewFromFloat(DecodeExpense(doc).Amount))
	}
	return total, nil
}
