package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roastline/roastline/internal/docstore"
	"github.com/roastline/roastline/internal/opsday"
)

// Service orchestrates one archive sync: it recomputes the current and the
// previous operational day from scratch and merges both into the archive.
// Recomputing yesterday on every run is what folds in late-settling records;
// there is no separate backfill path.
type Service struct {
	fetcher  *Fetcher
	writer   *Writer
	calendar *opsday.Calendar
	logger   *slog.Logger
	clock    func() time.Time
}

// NewService wires the archive service over a document store.
func NewService(store docstore.Store, calendar *opsday.Calendar, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  NewFetcher(store),
		writer:   NewWriter(store),
		calendar: calendar,
		logger:   logger,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Sync recomputes and writes today and yesterday, returning the days in
// that order. The two days write disjoint archive keys, so order does not
// affect correctness; they run sequentially to keep load on the store
// predictable.
func (s *Service) Sync(ctx context.Context) ([]opsday.Day, error) {
	today := s.calendar.DayAt(s.clock())
	days := []opsday.Day{today, s.calendar.PreviousDay(today)}

	for _, day := range days {
		if err := s.SyncDay(ctx, day); err != nil {
			return nil, err
		}
	}
	return days, nil
}

// SyncDay recomputes one day and merges the result into the archive.
func (s *Service) SyncDay(ctx context.Context, day opsday.Day) error {
	totals, expenses, err := s.ComputeDay(ctx, day)
	if err != nil {
		return err
	}
	if err := s.writer.WriteDay(ctx, day, totals, expenses); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("archived day",
			slog.String("day", day.Key),
			slog.String("sales", totals.Sales.String()),
			slog.String("profit", totals.Profit.String()),
			slog.Float64("grams", totals.Grams),
			slog.Int("drinks", totals.Drinks),
			slog.Int("snacks", totals.Snacks),
			slog.String("expenses", expenses.String()),
		)
	}
	return nil
}

// ComputeDay is the full stateless recomputation of one day's KPIs. Running
// it twice over unchanged records yields identical totals.
func (s *Service) ComputeDay(ctx context.Context, day opsday.Day) (Totals, decimal.Decimal, error) {
	sales, err := s.fetcher.FetchSales(ctx, day.Start, day.End)
	if err != nil {
		return Totals{}, decimal.Zero, err
	}
	expenses, err := s.fetcher.FetchExpenses(ctx, day.Start, day.End)
	if err != nil {
		return Totals{}, decimal.Zero, err
	}
	return ReconcileDay(day, sales), expenses, nil
}
