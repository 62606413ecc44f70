package settings

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
)

var (
	ErrInvalidWeight = errors.New("weights must be between 0 and 1")
	ErrWeightSum     = errors.New("weights must sum to 1")
	ErrInvalidGrace  = errors.New("grace minutes must be between 0 and 240")
)

type ScoringSettings struct {
	WeightOnTime     decimal.Decimal
	WeightQuantity   decimal.Decimal
	WeightCompletion decimal.Decimal
	GraceMinutes     int64
}

func LoadScoringSettings(ctx context.Context, db *sqlite.DB) (ScoringSettings, error) {
	s := ScoringSettings{
		WeightOnTime:     decimal.RequireFromString("0.4"),
		WeightQuantity:   decimal.RequireFromString("0.4"),
		WeightCompletion: decimal.RequireFromString("0.2"),
		GraceMinutes:     15,
	}

	type kv struct {
		Key   string `bun:"key"`
		Value string `bun:"value"`
	}
	rows := make([]kv, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT key, value FROM settings
WHERE key IN ('scoring.weight_on_time', 'scoring.weight_quantity', 'scoring.weight_completion', 'checkin.grace_minutes')`).Scan(ctx, &rows)
	})
	if err != nil {
		return s, err
	}

	for _, row := range rows {
		switch row.Key {
		case "scoring.weight_on_time":
			if d, err := decimal.NewFromString(row.Value); err == nil {
				s.WeightOnTime = d
			}
		case "scoring.weight_quantity":
			if d, err := decimal.NewFromString(row.Value); err == nil {
				s.WeightQuantity = d
			}
		case "scoring.weight_completion":
			if d, err := decimal.NewFromString(row.Value); err == nil {
				s.WeightCompletion = d
			}
		case "checkin.grace_minutes":
			if d, err := decimal.NewFromString(row.Value); err == nil {
				s.GraceMinutes = d.IntPart()
			}
		}
	}
	return s, nil
}

// SaveScoringSettings validates and persists the scoring weights and the
// check-in grace window. The three weights must sum to exactly 1.
func SaveScoringSettings(ctx context.Context, db *sqlite.DB, s ScoringSettings) error {
	one := decimal.NewFromInt(1)
	for _, w := range []decimal.Decimal{s.WeightOnTime, s.WeightQuantity, s.WeightCompletion} {
		if w.IsNegative() || w.GreaterThan(one) {
			return ErrInvalidWeight
		}
	}
	if !s.WeightOnTime.Add(s.WeightQuantity).Add(s.WeightCompletion).Equal(one) {
		return ErrWeightSum
	}
	if s.GraceMinutes < 0 || s.GraceMinutes > 240 {
		return ErrInvalidGrace
	}

	values := map[string]string{
		"scoring.weight_on_time":    s.WeightOnTime.String(),
		"scoring.weight_quantity":   s.WeightQuantity.String(),
		"scoring.weight_completion": s.WeightCompletion.String(),
		"checkin.grace_minutes":     decimal.NewFromInt(s.GraceMinutes).String(),
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for key, value := range values {
			_, err := tx.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, value)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
