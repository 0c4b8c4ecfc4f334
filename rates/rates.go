/*
Package rates provides concrete AmountCalculator implementations.

PURPOSE:
  The billing engine treats the commission rate policy as an opaque pure
  function. This package is where dealership-specific rate tables live:
  flat percentage, per-day fees, and day-tiered percentages.

ROUNDING:
  Every calculator rounds to 2 decimal places. Rounding happens once, at
  the edge of the calculator, so the engine's totals sum already-rounded
  installments and stay exact.

SEE ALSO:
  - billing/types.go: The AmountCalculator contract
*/
package rates

import (
	"github.com/shopspring/decimal"

	"github.com/fleetrent/commission-engine/billing"
)

// currencyScale is the number of decimal places in commission amounts.
const currencyScale = 2

var hundred = decimal.NewFromInt(100)

// =============================================================================
// FLAT RATE - Single percentage of the base price
// =============================================================================

// FlatRate applies one commission percentage to the base price,
// regardless of billable days.
type FlatRate struct {
	Percent decimal.Decimal
}

var _ billing.AmountCalculator = FlatRate{}

// NewFlatRate builds a flat percentage rate, e.g. NewFlatRate(10) for 10%.
func NewFlatRate(percent float64) FlatRate {
	return FlatRate{Percent: decimal.NewFromFloat(percent)}
}

func (fr FlatRate) Commission(billableDays int, basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(fr.Percent).Div(hundred).Round(currencyScale)
}

// =============================================================================
// DAILY RATE - Fixed fee per billable day
// =============================================================================

// DailyRate charges a fixed fee per billable day, ignoring the base price.
type DailyRate struct {
	PerDay decimal.Decimal
}

var _ billing.AmountCalculator = DailyRate{}

func NewDailyRate(perDay float64) DailyRate {
	return DailyRate{PerDay: decimal.NewFromFloat(perDay)}
}

func (dr DailyRate) Commission(billableDays int, basePrice decimal.Decimal) decimal.Decimal {
	return dr.PerDay.Mul(decimal.NewFromInt(int64(billableDays))).Round(currencyScale)
}

// =============================================================================
// TIERED RATE - Percentage chosen by billable-day tier
// =============================================================================

// Tier is one row of a day-tiered rate table. A nil MaxDays means the
// tier is unbounded above.
type Tier struct {
	MinDays int
	MaxDays *int
	Percent decimal.Decimal
}

func (t Tier) contains(days int) bool {
	if days < t.MinDays {
		return false
	}
	return t.MaxDays == nil || days <= *t.MaxDays
}

// TieredRate selects a percentage by billable days. When several tiers
// match, the one with the highest MinDays wins; when none match, the
// commission is zero.
type TieredRate struct {
	Tiers []Tier
}

var _ billing.AmountCalculator = TieredRate{}

func (tr TieredRate) Commission(billableDays int, basePrice decimal.Decimal) decimal.Decimal {
	best := -1
	for i, t := range tr.Tiers {
		if !t.contains(billableDays) {
			continue
		}
		if best < 0 || t.MinDays > tr.Tiers[best].MinDays {
			best = i
		}
	}
	if best < 0 {
		return decimal.Zero
	}
	return basePrice.Mul(tr.Tiers[best].Percent).Div(hundred).Round(currencyScale)
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultDealerRate is the standard dealership table: short rentals pay a
// higher percentage, monthly contracts a lower one.
func DefaultDealerRate() TieredRate {
	weekMax := 7
	monthMax := 29
	return TieredRate{Tiers: []Tier{
		{MinDays: 1, MaxDays: &weekMax, Percent: decimal.NewFromInt(15)},
		{MinDays: 8, MaxDays: &monthMax, Percent: decimal.NewFromInt(12)},
		{MinDays: 30, MaxDays: nil, Percent: decimal.NewFromInt(10)},
	}}
}
