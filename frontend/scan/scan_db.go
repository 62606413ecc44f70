package scan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
	"dockhand/infrastructure/ws"
	"dockhand/scanflow"
)

// Service implements scanflow.Client over the local database. One Service is
// bound to one operator so scan events carry the right user.
type Service struct {
	db     *sqlite.DB
	hub    *ws.Hub
	userID int64
}

func NewService(db *sqlite.DB, hub *ws.Hub, userID int64) *Service {
	return &Service{db: db, hub: hub, userID: userID}
}

// ScanDN opens (or resumes) the scan session for a delivery note. The DN must
// belong to a checked-in arrival; an active session for the same DN is resumed
// rather than duplicated.
func (s *Service) ScanDN(ctx context.Context, dnNumber string) (scanflow.Session, []scanflow.Item, error) {
	dnNumber = strings.ToUpper(strings.TrimSpace(dnNumber))

	var session scanflow.Session
	var items []scanflow.Item
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var dnID, supplierID int64
		var storedDN string
		var arrivalID sql.NullInt64
		if err := tx.NewRaw(`
SELECT id, dn_number, supplier_id, arrival_id FROM delivery_notes WHERE dn_number = ?`,
			dnNumber).Scan(ctx, &dnID, &storedDN, &supplierID, &arrivalID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("delivery note %s not found", dnNumber)
			}
			return err
		}

		resolvedArrival := arrivalID.Int64
		if !arrivalID.Valid {
			err := tx.NewRaw(`
SELECT id FROM arrivals
WHERE supplier_id = ? AND status = 'checked_in'
ORDER BY checked_in_at DESC
LIMIT 1`, supplierID).Scan(ctx, &resolvedArrival)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no checked-in arrival for %s", dnNumber)
			}
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
UPDATE delivery_notes SET arrival_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				resolvedArrival, dnID); err != nil {
				return err
			}
		}

		var sessionID string
		err := tx.NewRaw(`
SELECT id FROM scan_sessions WHERE dn_id = ? AND status = 'active'`, dnID).Scan(ctx, &sessionID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			sessionID = uuid.NewString()
			if _, err := tx.ExecContext(ctx, `
INSERT INTO scan_sessions (id, dn_id, arrival_id) VALUES (?, ?, ?)`,
				sessionID, dnID, resolvedArrival); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		session = scanflow.Session{ID: sessionID, ArrivalID: resolvedArrival, DNNumber: storedDN, Status: "active"}

		var loadErr error
		items, loadErr = loadItems(ctx, tx, dnID)
		return loadErr
	})
	if err != nil {
		return scanflow.Session{}, nil, err
	}
	return session, items, nil
}

// ScanItem applies one accepted label to the session's delivery note. The
// remaining-quantity cap is re-checked inside the write transaction; a repeat
// of the same (part, lot, qty) within a second is refused as a conflict.
func (s *Service) ScanItem(ctx context.Context, sessionID, rawLabel string) error {
	label, err := scanflow.ParseLabel(rawLabel)
	if err != nil {
		return err
	}

	var dnID int64
	err = s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var status string
		if err := tx.NewRaw(`
SELECT dn_id, status FROM scan_sessions WHERE id = ?`, sessionID).Scan(ctx, &dnID, &status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("scan session not found")
			}
			return err
		}
		if status != "active" {
			return fmt.Errorf("scan session is already completed")
		}

		var duplicate int
		if err := tx.NewRaw(`
SELECT COUNT(1) FROM scan_events
WHERE session_id = ? AND part_no = ? COLLATE NOCASE AND lot_no = ? AND qty = ?
  AND created_at >= datetime('now', '-1 seconds')`,
			sessionID, label.PartNo, label.LotNo, label.Qty).Scan(ctx, &duplicate); err != nil {
			return err
		}
		if duplicate > 0 {
			return fmt.Errorf("%s already scanned: %w", label.PartNo, scanflow.ErrConflict)
		}

		var itemID, totalQty, scannedQty int64
		err := tx.NewRaw(`
SELECT id, total_qty, scanned_qty FROM dn_items
WHERE dn_id = ? AND part_no = ? COLLATE NOCASE`, dnID, label.PartNo).
			Scan(ctx, &itemID, &totalQty, &scannedQty)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("part %s is not on this delivery note", label.PartNo)
		}
		if err != nil {
			return err
		}
		if scannedQty+label.Qty > totalQty {
			return fmt.Errorf("quantity exceeds remaining: only %d left for %s", totalQty-scannedQty, label.PartNo)
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE dn_items SET scanned_qty = scanned_qty + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			label.Qty, itemID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO scan_events (session_id, part_no, lot_no, qty, user_id)
VALUES (?, ?, ?, ?, ?)`, sessionID, label.PartNo, label.LotNo, label.Qty, s.userID)
		return err
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastChange("scan", "item", dnID)
	}
	return nil
}

// CompleteScanSession closes the session once the operator confirmed with the
// DN number. Every declared quantity must be fully scanned.
func (s *Service) CompleteScanSession(ctx context.Context, sessionID, dnNumber string) error {
	var arrivalID int64
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var dnID int64
		var status, storedDN string
		if err := tx.NewRaw(`
SELECT ss.dn_id, ss.arrival_id, ss.status, n.dn_number
FROM scan_sessions ss
JOIN delivery_notes n ON n.id = ss.dn_id
WHERE ss.id = ?`, sessionID).Scan(ctx, &dnID, &arrivalID, &status, &storedDN); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("scan session not found")
			}
			return err
		}
		if status != "active" {
			return fmt.Errorf("scan session is already completed")
		}
		if !strings.EqualFold(strings.TrimSpace(dnNumber), storedDN) {
			return fmt.Errorf("confirmation %s does not match %s", strings.TrimSpace(dnNumber), storedDN)
		}

		var outstanding int
		if err := tx.NewRaw(`
SELECT COUNT(1) FROM dn_items WHERE dn_id = ? AND scanned_qty < total_qty`, dnID).Scan(ctx, &outstanding); err != nil {
			return err
		}
		if outstanding > 0 {
			return fmt.Errorf("%s is not fully scanned", storedDN)
		}

		_, err := tx.ExecContext(ctx, `
UPDATE scan_sessions SET status = 'completed', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionID)
		return err
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastChange("scan", "completed", arrivalID)
	}
	return nil
}

// MarkArrivalIncomplete flags the arrival; the scan session stays active so a
// later DN scan resumes where the operator left off.
func (s *Service) MarkArrivalIncomplete(ctx context.Context, arrivalID int64) error {
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE arrivals SET status = 'incomplete', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND status IN ('checked_in', 'incomplete')`, arrivalID)
		if err != nil {
			return err
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return fmt.Errorf("arrival is not checked in")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastChange("arrival", "incomplete", arrivalID)
	}
	return nil
}

// GetDNItems reloads the expected lines for a delivery note.
func (s *Service) GetDNItems(ctx context.Context, dnNumber string) ([]scanflow.Item, error) {
	dnNumber = strings.ToUpper(strings.TrimSpace(dnNumber))
	var items []scanflow.Item
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var dnID int64
		if err := tx.NewRaw(`SELECT id FROM delivery_notes WHERE dn_number = ?`, dnNumber).Scan(ctx, &dnID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("delivery note %s not found", dnNumber)
			}
			return err
		}
		var loadErr error
		items, loadErr = loadItems(ctx, tx, dnID)
		return loadErr
	})
	return items, err
}

func loadItems(ctx context.Context, tx bun.Tx, dnID int64) ([]scanflow.Item, error) {
	type row struct {
		PartNo     string `bun:"part_no"`
		TotalQty   int64  `bun:"total_qty"`
		ScannedQty int64  `bun:"scanned_qty"`
		QtyPerBox  int64  `bun:"qty_per_box"`
	}
	rows := make([]row, 0)
	if err := tx.NewRaw(`
SELECT part_no, total_qty, scanned_qty, qty_per_box
FROM dn_items
WHERE dn_id = ?
ORDER BY part_no ASC`, dnID).Scan(ctx, &rows); err != nil {
		return nil, err
	}
	items := make([]scanflow.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, scanflow.Item{
			PartNo:     r.PartNo,
			TotalQty:   r.TotalQty,
			ScannedQty: r.ScannedQty,
			QtyPerBox:  r.QtyPerBox,
		})
	}
	return items, nil
}
