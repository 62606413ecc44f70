package performance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func defaultWeights() Weights {
	return Weights{
		OnTime:     decimal.NewFromFloat(0.4),
		Quantity:   decimal.NewFromFloat(0.4),
		Completion: decimal.NewFromFloat(0.2),
	}
}

func TestScore_PerfectSupplier(t *testing.T) {
	m := Metrics{Arrivals: 10, OnTime: 10, Completed: 10, DeclaredQty: 500, ScannedQty: 500}
	got := Score(m, defaultWeights())
	if !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100, got %s", got)
	}
}

func TestScore_WeightedMix(t *testing.T) {
	// on-time 0.5, quantity 0.8, completion 0.25
	// 0.4*0.5 + 0.4*0.8 + 0.2*0.25 = 0.57 -> 57.0
	m := Metrics{Arrivals: 4, OnTime: 2, Completed: 1, DeclaredQty: 100, ScannedQty: 80}
	got := Score(m, defaultWeights())
	if !got.Equal(decimal.NewFromFloat(57.0)) {
		t.Fatalf("expected 57, got %s", got)
	}
}

func TestScore_EmptyDenominatorsScoreZero(t *testing.T) {
	got := Score(Metrics{}, defaultWeights())
	if !got.Equal(decimal.Zero) {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestQuantityAccuracy_ClampsOverScan(t *testing.T) {
	m := Metrics{DeclaredQty: 100, ScannedQty: 120}
	if !m.QuantityAccuracy().Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected clamp to 1, got %s", m.QuantityAccuracy())
	}
}

func TestScore_RoundsToOneDecimal(t *testing.T) {
	// on-time 1/3 with weight 0.4 -> 13.333... -> with quantity and
	// completion at zero the total rounds to 13.3.
	m := Metrics{Arrivals: 3, OnTime: 1}
	got := Score(m, defaultWeights())
	if !got.Equal(decimal.NewFromFloat(13.3)) {
		t.Fatalf("expected 13.3, got %s", got)
	}
}
