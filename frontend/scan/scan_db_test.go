package scan

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
	"dockhand/scanflow"
)

func openScanTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scan-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

// seedDN creates a checked-in arrival with one DN holding PART-A x10 (per box
// 5) and PART-B x8, and returns the arrival id.
func seedDN(t *testing.T, db *sqlite.DB, dnNumber string) int64 {
	t.Helper()
	var arrivalID int64
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO suppliers (bp_code, name) VALUES (?, ?)`, "BP-"+dnNumber, "Supplier")
		if err != nil {
			return err
		}
		supplierID, _ := res.LastInsertId()

		res, err = tx.ExecContext(ctx, `
INSERT INTO arrivals (supplier_id, kind, plan_date, plan_time, unload_minutes, status, checked_in_at)
VALUES (?, 'additional', date('now'), '08:00', 60, 'checked_in', CURRENT_TIMESTAMP)`, supplierID)
		if err != nil {
			return err
		}
		arrivalID, _ = res.LastInsertId()

		res, err = tx.ExecContext(ctx, `
INSERT INTO delivery_notes (dn_number, supplier_id, arrival_id) VALUES (?, ?, ?)`, dnNumber, supplierID, arrivalID)
		if err != nil {
			return err
		}
		dnID, _ := res.LastInsertId()

		if _, err := tx.ExecContext(ctx, `
INSERT INTO dn_items (dn_id, part_no, total_qty, qty_per_box) VALUES (?, 'PART-A', 10, 5), (?, 'PART-B', 8, 8)`, dnID, dnID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed dn: %v", err)
	}
	return arrivalID
}

func label(part string, qty int, lot, dn string) string {
	return part + ";" + strconv.Itoa(qty) + ";" + lot + ";x;y;z;" + dn
}

func TestScanDN_OpensAndResumesSession(t *testing.T) {
	db := openScanTestDB(t)
	arrivalID := seedDN(t, db, "DN900001")
	svc := NewService(db, nil, 1)

	sess, items, err := svc.ScanDN(context.Background(), "dn900001")
	if err != nil {
		t.Fatalf("scan dn: %v", err)
	}
	if sess.ID == "" || sess.ArrivalID != arrivalID || sess.DNNumber != "DN900001" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	again, _, err := svc.ScanDN(context.Background(), "DN900001")
	if err != nil {
		t.Fatalf("rescan dn: %v", err)
	}
	if again.ID != sess.ID {
		t.Fatalf("expected resumed session %s, got %s", sess.ID, again.ID)
	}
}

func TestScanDN_UnknownDN(t *testing.T) {
	db := openScanTestDB(t)
	svc := NewService(db, nil, 1)

	if _, _, err := svc.ScanDN(context.Background(), "DN999999"); err == nil {
		t.Fatalf("expected error for unknown dn")
	}
}

func TestScanItem_AppliesAndGuards(t *testing.T) {
	db := openScanTestDB(t)
	seedDN(t, db, "DN900002")
	svc := NewService(db, nil, 7)

	sess, _, err := svc.ScanDN(context.Background(), "DN900002")
	if err != nil {
		t.Fatalf("scan dn: %v", err)
	}

	if err := svc.ScanItem(context.Background(), sess.ID, label("PART-A", 5, "LOT1", "DN900002")); err != nil {
		t.Fatalf("scan item: %v", err)
	}

	items, err := svc.GetDNItems(context.Background(), "DN900002")
	if err != nil {
		t.Fatalf("get items: %v", err)
	}
	for _, it := range items {
		if it.PartNo == "PART-A" && it.ScannedQty != 5 {
			t.Fatalf("expected PART-A scanned 5, got %d", it.ScannedQty)
		}
	}

	// Identical label again within the same second is a duplicate.
	err = svc.ScanItem(context.Background(), sess.ID, label("PART-A", 5, "LOT1", "DN900002"))
	if !errors.Is(err, scanflow.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Different lot goes through, but exceeding the remaining quantity fails.
	if err := svc.ScanItem(context.Background(), sess.ID, label("PART-A", 6, "LOT2", "DN900002")); err == nil {
		t.Fatalf("expected remaining-quantity error")
	}

	if err := svc.ScanItem(context.Background(), sess.ID, label("PART-X", 1, "LOT1", "DN900002")); err == nil {
		t.Fatalf("expected unknown-part error")
	}

	// Scan event rows carry the operator.
	var userID int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT user_id FROM scan_events LIMIT 1`).Scan(ctx, &userID)
	})
	if err != nil || userID != 7 {
		t.Fatalf("expected scan event for user 7, got %d (err=%v)", userID, err)
	}
}

func TestCompleteScanSession_RequiresFullScanAndMatchingDN(t *testing.T) {
	db := openScanTestDB(t)
	seedDN(t, db, "DN900003")
	svc := NewService(db, nil, 1)

	sess, _, err := svc.ScanDN(context.Background(), "DN900003")
	if err != nil {
		t.Fatalf("scan dn: %v", err)
	}

	if err := svc.CompleteScanSession(context.Background(), sess.ID, "DN900003"); err == nil {
		t.Fatalf("expected not-fully-scanned error")
	}

	if err := svc.ScanItem(context.Background(), sess.ID, label("PART-A", 10, "LOT1", "DN900003")); err != nil {
		t.Fatalf("scan PART-A: %v", err)
	}
	if err := svc.ScanItem(context.Background(), sess.ID, label("PART-B", 8, "LOT1", "DN900003")); err != nil {
		t.Fatalf("scan PART-B: %v", err)
	}

	if err := svc.CompleteScanSession(context.Background(), sess.ID, "DN000000"); err == nil {
		t.Fatalf("expected confirmation-mismatch error")
	}
	if err := svc.CompleteScanSession(context.Background(), sess.ID, "dn900003"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.CompleteScanSession(context.Background(), sess.ID, "DN900003"); err == nil {
		t.Fatalf("expected already-completed error")
	}

	var status string
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT status FROM scan_sessions WHERE id = ?`, sess.ID).Scan(ctx, &status)
	})
	if err != nil || status != "completed" {
		t.Fatalf("expected completed session, got %s (err=%v)", status, err)
	}
}

func TestMarkArrivalIncomplete_KeepsSessionActive(t *testing.T) {
	db := openScanTestDB(t)
	arrivalID := seedDN(t, db, "DN900004")
	svc := NewService(db, nil, 1)

	sess, _, err := svc.ScanDN(context.Background(), "DN900004")
	if err != nil {
		t.Fatalf("scan dn: %v", err)
	}

	if err := svc.MarkArrivalIncomplete(context.Background(), arrivalID); err != nil {
		t.Fatalf("mark incomplete: %v", err)
	}

	var arrivalStatus, sessionStatus string
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewRaw(`SELECT status FROM arrivals WHERE id = ?`, arrivalID).Scan(ctx, &arrivalStatus); err != nil {
			return err
		}
		return tx.NewRaw(`SELECT status FROM scan_sessions WHERE id = ?`, sess.ID).Scan(ctx, &sessionStatus)
	})
	if err != nil {
		t.Fatalf("load statuses: %v", err)
	}
	if arrivalStatus != "incomplete" {
		t.Fatalf("expected incomplete arrival, got %s", arrivalStatus)
	}
	if sessionStatus != "active" {
		t.Fatalf("expected session to stay active, got %s", sessionStatus)
	}

	// The same DN resumes the same session.
	again, _, err := svc.ScanDN(context.Background(), "DN900004")
	if err != nil {
		t.Fatalf("rescan dn: %v", err)
	}
	if again.ID != sess.ID {
		t.Fatalf("expected resumed session %s, got %s", sess.ID, again.ID)
	}
}
