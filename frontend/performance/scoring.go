package performance

import "github.com/shopspring/decimal"

// Weights are the configured component weights. They are expected to sum to 1
// but the score is computed from whatever is stored.
type Weights struct {
	OnTime     decimal.Decimal
	Quantity   decimal.Decimal
	Completion decimal.Decimal
}

// Metrics are one supplier's raw counters over the reporting range.
type Metrics struct {
	Arrivals    int64
	OnTime      int64
	Completed   int64
	DeclaredQty int64
	ScannedQty  int64
}

var hundred = decimal.NewFromInt(100)

// OnTimeRate is the share of arrivals checked in within the grace window.
func (m Metrics) OnTimeRate() decimal.Decimal {
	return rate(m.OnTime, m.Arrivals)
}

// QuantityAccuracy compares scanned against declared quantities.
func (m Metrics) QuantityAccuracy() decimal.Decimal {
	return rate(m.ScannedQty, m.DeclaredQty)
}

// CompletionRate is the share of arrivals that finished fully scanned.
func (m Metrics) CompletionRate() decimal.Decimal {
	return rate(m.Completed, m.Arrivals)
}

// Score is the weighted total on a 0-100 scale, rounded to one decimal place.
func Score(m Metrics, w Weights) decimal.Decimal {
	total := w.OnTime.Mul(m.OnTimeRate()).
		Add(w.Quantity.Mul(m.QuantityAccuracy())).
		Add(w.Completion.Mul(m.CompletionRate()))
	return total.Mul(hundred).Round(1)
}

// rate is numerator/denominator clamped to [0, 1]; an empty denominator
// scores zero rather than dividing.
func rate(num, den int64) decimal.Decimal {
	if den <= 0 {
		return decimal.Zero
	}
	r := decimal.NewFromInt(num).Div(decimal.NewFromInt(den))
	if r.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return r
}
