package exports

import (
	"context"
	"strconv"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
)

var arrivalsHeader = []string{"date", "plan_time", "bp_code", "supplier", "dock", "status", "checked_in_at", "checked_out_at"}

func loadArrivalRows(ctx context.Context, db *sqlite.DB, from, to string) ([][]string, error) {
	type row struct {
		Date         string `bun:"date"`
		PlanTime     string `bun:"plan_time"`
		BPCode       string `bun:"bp_code"`
		Supplier     string `bun:"supplier"`
		Dock         string `bun:"dock"`
		Status       string `bun:"status"`
		CheckedInAt  string `bun:"checked_in_at"`
		CheckedOutAt string `bun:"checked_out_at"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT COALESCE(strftime('%d/%m/%Y', COALESCE(a.checked_in_at, a.plan_date, a.created_at)), '') AS date,
       COALESCE(a.plan_time, '') AS plan_time,
       s.bp_code, s.name AS supplier,
       COALESCE(d.name, '') AS dock,
       a.status,
       COALESCE(strftime('%d/%m/%Y %H:%M', a.checked_in_at), '') AS checked_in_at,
       COALESCE(strftime('%d/%m/%Y %H:%M', a.checked_out_at), '') AS checked_out_at
FROM arrivals a
JOIN suppliers s ON s.id = a.supplier_id
LEFT JOIN docks d ON d.id = a.dock_id
WHERE date(COALESCE(a.checked_in_at, a.plan_date, a.created_at)) BETWEEN date(?) AND date(?)
ORDER BY COALESCE(a.checked_in_at, a.plan_date, a.created_at) ASC, s.bp_code ASC`, from, to).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Date, r.PlanTime, r.BPCode, r.Supplier, r.Dock, r.Status, r.CheckedInAt, r.CheckedOutAt})
	}
	return out, nil
}

var dnItemsHeader = []string{"dn_number", "bp_code", "supplier", "part_no", "total_qty", "scanned_qty", "qty_per_box", "dn_status"}

func loadDNItemRows(ctx context.Context, db *sqlite.DB) ([][]string, error) {
	type row struct {
		DNNumber   string `bun:"dn_number"`
		BPCode     string `bun:"bp_code"`
		Supplier   string `bun:"supplier"`
		PartNo     string `bun:"part_no"`
		TotalQty   int64  `bun:"total_qty"`
		ScannedQty int64  `bun:"scanned_qty"`
		QtyPerBox  int64  `bun:"qty_per_box"`
		DNStatus   string `bun:"dn_status"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT dn.dn_number, s.bp_code, s.name AS supplier,
       i.part_no, i.total_qty, i.scanned_qty, i.qty_per_box,
       dn.status AS dn_status
FROM dn_items i
JOIN delivery_notes dn ON dn.id = i.dn_id
JOIN suppliers s ON s.id = dn.supplier_id
ORDER BY dn.dn_number ASC, i.part_no ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.DNNumber, r.BPCode, r.Supplier, r.PartNo,
			toString(r.TotalQty), toString(r.ScannedQty), toString(r.QtyPerBox),
			r.DNStatus,
		})
	}
	return out, nil
}

var scanEventsHeader = []string{"scanned_at", "dn_number", "part_no", "qty", "lot_no", "operator"}

func loadScanEventRows(ctx context.Context, db *sqlite.DB, from, to string) ([][]string, error) {
	type row struct {
		ScannedAt string `bun:"scanned_at"`
		DNNumber  string `bun:"dn_number"`
		PartNo    string `bun:"part_no"`
		Qty       int64  `bun:"qty"`
		LotNo     string `bun:"lot_no"`
		Operator  string `bun:"operator"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT strftime('%d/%m/%Y %H:%M:%S', e.created_at) AS scanned_at,
       dn.dn_number, e.part_no, e.qty,
       COALESCE(e.lot_no, '') AS lot_no,
       COALESCE(u.username, '') AS operator
FROM scan_events e
JOIN scan_sessions ss ON ss.id = e.scan_session_id
JOIN delivery_notes dn ON dn.id = ss.dn_id
LEFT JOIN users u ON u.id = e.user_id
WHERE date(e.created_at) BETWEEN date(?) AND date(?)
ORDER BY e.created_at ASC`, from, to).Scan(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ScannedAt, r.DNNumber, r.PartNo, toString(r.Qty), r.LotNo, r.Operator})
	}
	return out, nil
}

func recordExportRun(ctx context.Context, db *sqlite.DB, userID *int64, exportType string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var uid any = nil
		if userID != nil {
			uid = *userID
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO export_runs (user_id, export_type, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`, uid, exportType)
		return err
	})
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
