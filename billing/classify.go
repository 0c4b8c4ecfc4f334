package billing

// =============================================================================
// RENTAL CLASSIFIER - Monthly vs Standard
// =============================================================================

// RentalKind decides which billing rule applies to a reservation.
type RentalKind string

const (
	// RentalStandard bills as a single one-off contract.
	RentalStandard RentalKind = "standard"

	// RentalMonthly bills as repeating fixed 30-day periods.
	RentalMonthly RentalKind = "monthly"
)

// monthlyTariffDays is the tariff hint that marks an explicit monthly
// contract, and the fixed billing basis for every monthly period.
const monthlyTariffDays = 30

// monthlyPeriod is the fixed instant length of one monthly billing period.
const monthlyPeriod = monthlyTariffDays * day

// Classify is a pure, stateless decision over reservation fields.
// Monthly iff the tariff hint says 30, or the planned duration is at
// least 30 days (inclusive: a rental lasting exactly 30 days is Monthly
// even if its tariff hint disagrees).
func Classify(r Reservation) RentalKind {
	if r.PeriodTypeDays == monthlyTariffDays {
		return RentalMonthly
	}
	if r.DateTo.Sub(r.DateFrom) >= monthlyPeriod {
		return RentalMonthly
	}
	return RentalStandard
}
