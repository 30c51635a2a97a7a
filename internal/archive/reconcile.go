package archive

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roastline/roastline/internal/opsday"
)

// Totals is the KPI aggregate for one operational day. Monetary sums use
// decimals so fractional deferred contributions stay exact; grams come from
// scale readings and stay floats.
type Totals struct {
	Sales  decimal.Decimal
	Cost   decimal.Decimal
	Profit decimal.Decimal
	Grams  float64
	Drinks int
	Snacks int
}

// Add merges two partial sums. The fold over sales is commutative, so
// partial totals can be combined in any order.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Sales:  t.Sales.Add(other.Sales),
		Cost:   t.Cost.Add(other.Cost),
		Profit: t.Profit.Add(other.Profit),
		Grams:  t.Grams + other.Grams,
		Drinks: t.Drinks + other.Drinks,
		Snacks: t.Snacks + other.Snacks,
	}
}

// paymentTracking classifies how a deferred sale records its payments.
type paymentTracking int

const (
	// trackingNone: no usable payment records; money is all-or-nothing.
	trackingNone paymentTracking = iota
	// trackingEvents: the ordered payment_events sequence is present.
	trackingEvents
	// trackingFallback: only the single last_payment snapshot exists.
	trackingFallback
)

// tracking resolves the payment-tracking mode. The event sequence always
// wins over the last_payment fallback; the two are never combined, since
// the fallback mirrors the latest event and summing both would double count.
func (s Sale) tracking() paymentTracking {
	if !s.Deferred {
		return trackingNone
	}
	if len(s.Payments) > 0 {
		return trackingEvents
	}
	if s.LastPaymentAmount > 0 && s.LastPaymentAt != nil {
		return trackingFallback
	}
	return trackingNone
}

// productionInstant returns when the sale was made, for volume tallies.
// A sale with neither original_created_at nor created_at cannot be dated at
// all and is skipped by the engine.
func (s Sale) productionInstant() *time.Time {
	if s.OriginalCreatedAt != nil {
		return s.OriginalCreatedAt
	}
	return s.CreatedAt
}

// financialInstant returns when money is recognized for an untracked sale:
// settlement, then last mutation, then creation, then the production instant.
func (s Sale) financialInstant() *time.Time {
	switch {
	case s.SettledAt != nil:
		return s.SettledAt
	case s.UpdatedAt != nil:
		return s.UpdatedAt
	case s.CreatedAt != nil:
		return s.CreatedAt
	default:
		return s.productionInstant()
	}
}

// moneyFraction decides what share of the sale's value belongs to the given
// day. The first return is the clamped [0,1] fraction, the second reports
// whether the sale contributes money to this day at all.
//
// Untracked sales are binary: the full value lands on the day containing the
// financial instant, provided the sale is not an unpaid deferral. Tracked
// deferred sales contribute the in-window paid amount over the base price;
// each day is computed independently, so a sale paid across several days
// splits its value across those days without any cross-day bookkeeping.
func (s Sale) moneyFraction(day opsday.Day) (decimal.Decimal, bool) {
	switch s.tracking() {
	case trackingEvents:
		paid := decimal.Zero
		for _, ev := range s.Payments {
			if ev.At != nil && day.Contains(ev.At.UTC()) {
				paid = paid.Add(decimal.NewFromFloat(ev.Amount))
			}
		}
		return clampFraction(paid, s.basePrice()), true
	case trackingFallback:
		if !day.Contains(s.LastPaymentAt.UTC()) {
			return decimal.Zero, true
		}
		return clampFraction(decimal.NewFromFloat(s.LastPaymentAmount), s.basePrice()), true
	default:
		instant := s.financialInstant()
		if instant == nil || !day.Contains(instant.UTC()) {
			return decimal.Zero, false
		}
		if s.Deferred && !s.Paid {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(1), true
	}
}

// basePrice is the denominator for fractional recognition: the original
// undiscounted price when the POS recorded one, else the current price.
func (s Sale) basePrice() decimal.Decimal {
	if s.ParentTotalPrice != 0 {
		return decimal.NewFromFloat(s.ParentTotalPrice)
	}
	return decimal.NewFromFloat(s.TotalPrice)
}

func clampFraction(paid, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() || paid.Sign() <= 0 {
		return decimal.Zero
	}
	fraction := paid.Div(base)
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return fraction
}

// money returns the sale's price, cost and profit after the complimentary
// zeroing and the profit-sentinel derivation, before fractional scaling.
func (s Sale) money() (price, cost, profit decimal.Decimal) {
	if !s.Complimentary {
		price = decimal.NewFromFloat(s.TotalPrice)
	}
	cost = decimal.NewFromFloat(s.TotalCost)
	profit = decimal.NewFromFloat(s.ProfitTotal)
	// A zero profit with nonzero price or cost means the POS never computed
	// it upstream.
	if profit.IsZero() && (!price.IsZero() || !cost.IsZero()) {
		profit = price.Sub(cost)
	}
	return price, cost, profit
}

// productionEligible reports whether the sale's volume counts at all. An
// unpaid deferred order has not been handed over, so it contributes no
// production even though the record exists.
func (s Sale) productionEligible() bool {
	return !(s.Deferred && !s.Paid)
}

// ReconcileDay folds the candidate sales into the day's totals. Each sale is
// classified independently on two axes: whether its production volume falls
// in this day, and what fraction of its money does.
func ReconcileDay(day opsday.Day, sales []Sale) Totals {
	var totals Totals
	for _, sale := range sales {
		production := sale.productionInstant()
		if production == nil {
			continue
		}

		if fraction, ok := sale.moneyFraction(day); ok && fraction.Sign() > 0 {
			price, cost, profit := sale.money()
			totals.Sales = totals.Sales.Add(price.Mul(fraction))
			totals.Cost = totals.Cost.Add(cost.Mul(fraction))
			totals.Profit = totals.Profit.Add(profit.Mul(fraction))
		}

		if day.Contains(production.UTC()) && sale.productionEligible() {
			tallyProduction(&totals, sale)
		}
	}
	return totals
}

func tallyProduction(totals *Totals, sale Sale) {
	switch sale.Type {
	case TypeDrink:
		totals.Drinks += unitCount(sale.Quantity)
	case TypeSingle, TypeReadyBlend:
		totals.Grams += sale.Grams
	case TypeCustomBlend:
		totals.Grams += sale.TotalGrams
	case TypeExtra:
		totals.Snacks += unitCount(sale.Quantity)
	}
}

// unitCount rounds a quantity to whole units with a floor of one: even a
// zero-quantity line represents at least one prepared item.
func unitCount(quantity float64) int {
	n := int(math.Round(quantity))
	if n < 1 {
		return 1
	}
	return n
}
