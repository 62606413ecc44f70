package dn

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/sqlite"
)

type ImportSummary struct {
	Inserted int
	Updated  int
	Errors   int
}

// ImportCSV loads declared DN lines from a CSV with header
// dn_number,bp_code,part_no,total_qty,qty_per_box. Headers are created on
// first sight of a DN number; repeated (dn, part) lines update the declared
// quantities. Rows referencing an unknown BP code count as errors.
func ImportCSV(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 5 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "dn_number") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "bp_code") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "part_no") ||
		!strings.EqualFold(strings.TrimSpace(header[3]), "total_qty") ||
		!strings.EqualFold(strings.TrimSpace(header[4]), "qty_per_box") {
		return summary, fmt.Errorf("invalid CSV header; expected dn_number,bp_code,part_no,total_qty,qty_per_box")
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				summary.Errors++
				continue
			}
			if len(record) < 5 {
				summary.Errors++
				continue
			}

			dnNumber := strings.ToUpper(strings.TrimSpace(record[0]))
			bpCode := strings.ToUpper(strings.TrimSpace(record[1]))
			partNo := strings.TrimSpace(record[2])
			totalQty, qtyErr := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
			qtyPerBox, boxErr := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
			if dnNumber == "" || bpCode == "" || partNo == "" || qtyErr != nil || totalQty <= 0 || boxErr != nil || qtyPerBox <= 0 {
				summary.Errors++
				continue
			}

			var supplierID int64
			if err := tx.NewRaw(`SELECT id FROM suppliers WHERE bp_code = ?`, bpCode).Scan(ctx, &supplierID); err != nil {
				summary.Errors++
				continue
			}

			if _, err := tx.ExecContext(ctx, `
INSERT INTO delivery_notes (dn_number, supplier_id)
VALUES (?, ?)
ON CONFLICT(dn_number) DO NOTHING`, dnNumber, supplierID); err != nil {
				summary.Errors++
				continue
			}

			var dnID int64
			if err := tx.NewRaw(`SELECT id FROM delivery_notes WHERE dn_number = ?`, dnNumber).Scan(ctx, &dnID); err != nil {
				summary.Errors++
				continue
			}

			var exists int
			if err := tx.NewRaw(`SELECT COUNT(1) FROM dn_items WHERE dn_id = ? AND part_no = ?`, dnID, partNo).Scan(ctx, &exists); err != nil {
				return err
			}
			if exists > 0 {
				summary.Updated++
			} else {
				summary.Inserted++
			}

			if _, err := tx.ExecContext(ctx, `
INSERT INTO dn_items (dn_id, part_no, total_qty, qty_per_box)
VALUES (?, ?, ?, ?)
ON CONFLICT(dn_id, part_no) DO UPDATE SET
  total_qty = excluded.total_qty,
  qty_per_box = excluded.qty_per_box,
  updated_at = CURRENT_TIMESTAMP`, dnID, partNo, totalQty, qtyPerBox); err != nil {
				summary.Errors++
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO dn_import_runs (user_id, inserted_count, updated_count, error_count)
VALUES (?, ?, ?, ?)`, userID, summary.Inserted, summary.Updated, summary.Errors); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"inserted": summary.Inserted, "updated": summary.Updated, "errors": summary.Errors}
			return auditSvc.Write(ctx, tx, userID, "dn.import", "dn_import_runs", "latest", nil, after)
		}
		return nil
	})
	return summary, err
}
