package dn

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
)

var ErrDNNotFound = errors.New("delivery note not found")

func ListDeliveryNotes(ctx context.Context, db *sqlite.DB) ([]DNView, error) {
	rows := make([]DNView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT n.id, n.dn_number, sp.name AS supplier_name, sp.bp_code,
       COUNT(di.id) AS item_count,
       COALESCE(SUM(di.total_qty), 0) AS total_qty,
       COALESCE(SUM(di.scanned_qty), 0) AS scanned_qty,
       strftime('%d/%m/%Y', n.created_at) AS created_at_uk
FROM delivery_notes n
JOIN suppliers sp ON sp.id = n.supplier_id
LEFT JOIN dn_items di ON di.dn_id = n.id
GROUP BY n.id
ORDER BY n.created_at DESC, n.id DESC`).Scan(ctx, &rows)
	})
	return rows, err
}

// LoadDNDocument loads the header and items rendered onto the printable
// barcoded document.
func LoadDNDocument(ctx context.Context, db *sqlite.DB, id int64) (DNDocumentData, error) {
	var data DNDocumentData
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`
SELECT n.id, n.dn_number, sp.name AS supplier_name, sp.bp_code
FROM delivery_notes n
JOIN suppliers sp ON sp.id = n.supplier_id
WHERE n.id = ?`, id).Scan(ctx, &data.ID, &data.DNNumber, &data.SupplierName, &data.BPCode); err != nil {
			return err
		}

		items := make([]DNItemView, 0)
		if err := tx.NewRaw(`
SELECT part_no, total_qty, scanned_qty, qty_per_box
FROM dn_items
WHERE dn_id = ?
ORDER BY part_no ASC`, id).Scan(ctx, &items); err != nil {
			return err
		}
		data.Items = items
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return DNDocumentData{}, ErrDNNotFound
	}
	return data, err
}
