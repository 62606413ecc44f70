package performance

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
)

// LoadWeights reads the scoring weights and grace window from settings.
// Missing or unparsable rows fall back to the seeded defaults.
func LoadWeights(ctx context.Context, db *sqlite.DB) (Weights, int64, error) {
	weights := Weights{
		OnTime:     decimal.NewFromFloat(0.4),
		Quantity:   decimal.NewFromFloat(0.4),
		Completion: decimal.NewFromFloat(0.2),
	}
	graceMinutes := int64(15)

	type row struct {
		Key   string `bun:"key"`
		Value string `bun:"value"`
	}
	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT key, value FROM settings
WHERE key IN ('scoring.weight_on_time', 'scoring.weight_quantity', 'scoring.weight_completion', 'checkin.grace_minutes')`).Scan(ctx, &rows)
	})
	if err != nil {
		return weights, graceMinutes, err
	}

	for _, r := range rows {
		switch r.Key {
		case "scoring.weight_on_time":
			if d, err := decimal.NewFromString(r.Value); err == nil {
				weights.OnTime = d
			}
		case "scoring.weight_quantity":
			if d, err := decimal.NewFromString(r.Value); err == nil {
				weights.Quantity = d
			}
		case "scoring.weight_completion":
			if d, err := decimal.NewFromString(r.Value); err == nil {
				weights.Completion = d
			}
		case "checkin.grace_minutes":
			if n, err := strconv.ParseInt(r.Value, 10, 64); err == nil && n >= 0 {
				graceMinutes = n
			}
		}
	}
	return weights, graceMinutes, nil
}

// LoadSupplierScores computes per-supplier scores for arrivals falling inside
// [from, to]. An arrival is on time when it checked in no later than its
// planned time plus the grace window.
func LoadSupplierScores(ctx context.Context, db *sqlite.DB, from, to time.Time) ([]SupplierScore, error) {
	weights, graceMinutes, err := LoadWeights(ctx, db)
	if err != nil {
		return nil, err
	}

	type arrivalRow struct {
		SupplierID int64  `bun:"supplier_id"`
		BPCode     string `bun:"bp_code"`
		Name       string `bun:"name"`
		Arrivals   int64  `bun:"arrivals"`
		OnTime     int64  `bun:"on_time"`
		Completed  int64  `bun:"completed"`
	}
	arrivalRows := make([]arrivalRow, 0)

	type qtyRow struct {
		SupplierID  int64 `bun:"supplier_id"`
		DeclaredQty int64 `bun:"declared_qty"`
		ScannedQty  int64 `bun:"scanned_qty"`
	}
	qtyRows := make([]qtyRow, 0)

	fromText := from.Format("2006-01-02")
	toText := to.Format("2006-01-02")

	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT sp.id AS supplier_id, sp.bp_code, sp.name,
       COUNT(a.id) AS arrivals,
       COALESCE(SUM(CASE
           WHEN a.checked_in_at IS NOT NULL AND a.plan_time <> ''
                AND strftime('%s', a.checked_in_at) <= strftime('%s', date(a.checked_in_at) || ' ' || a.plan_time) + ? * 60
           THEN 1 ELSE 0 END), 0) AS on_time,
       COALESCE(SUM(CASE WHEN a.status = 'completed' THEN 1 ELSE 0 END), 0) AS completed
FROM suppliers sp
JOIN arrivals a ON a.supplier_id = sp.id
WHERE date(COALESCE(a.checked_in_at, a.plan_date, a.created_at)) BETWEEN date(?) AND date(?)
GROUP BY sp.id
ORDER BY sp.bp_code ASC`, graceMinutes, fromText, toText).Scan(ctx, &arrivalRows); err != nil {
			return err
		}

		return tx.NewRaw(`
SELECT n.supplier_id,
       COALESCE(SUM(di.total_qty), 0) AS declared_qty,
       COALESCE(SUM(di.scanned_qty), 0) AS scanned_qty
FROM delivery_notes n
JOIN dn_items di ON di.dn_id = n.id
WHERE date(n.created_at) BETWEEN date(?) AND date(?)
GROUP BY n.supplier_id`, fromText, toText).Scan(ctx, &qtyRows)
	})
	if err != nil {
		return nil, err
	}

	qtyBySupplier := make(map[int64]qtyRow, len(qtyRows))
	for _, q := range qtyRows {
		qtyBySupplier[q.SupplierID] = q
	}

	scores := make([]SupplierScore, 0, len(arrivalRows))
	for _, a := range arrivalRows {
		m := Metrics{
			Arrivals:  a.Arrivals,
			OnTime:    a.OnTime,
			Completed: a.Completed,
		}
		if q, ok := qtyBySupplier[a.SupplierID]; ok {
			m.DeclaredQty = q.DeclaredQty
			m.ScannedQty = q.ScannedQty
		}
		scores = append(scores, SupplierScore{
			SupplierID: a.SupplierID,
			BPCode:     a.BPCode,
			Name:       a.Name,
			Metrics:    m,
			OnTime:     formatPercent(m.OnTimeRate()),
			Quantity:   formatPercent(m.QuantityAccuracy()),
			Completion: formatPercent(m.CompletionRate()),
			Total:      Score(m, weights).StringFixed(1),
		})
	}
	return scores, nil
}

func formatPercent(r decimal.Decimal) string {
	return r.Mul(hundred).Round(1).StringFixed(1) + "%"
}
