package arrivals

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/sqlite"
)

func openArrivalsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "arrivals-test.db")
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

func seedSupplier(t *testing.T, db *sqlite.DB, bpCode string) int64 {
	t.Helper()
	var id int64
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO suppliers (bp_code, name) VALUES (?, ?)`, bpCode, "Supplier "+bpCode)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return id
}

func firstOpenDockID(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	docks, err := ListDocks(context.Background(), db)
	if err != nil || len(docks) == 0 {
		t.Fatalf("list docks: n=%d err=%v", len(docks), err)
	}
	return docks[0].ID
}

func TestListArrivalsForDay_MixesRegularAndAdditional(t *testing.T) {
	db := openArrivalsTestDB(t)
	supplierID := seedSupplier(t, db, "BP001")

	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) // a Wednesday
	if err := CreateRegularArrival(context.Background(), db, nil, 1, supplierID, int(day.Weekday()), "08:00", 60); err != nil {
		t.Fatalf("create regular: %v", err)
	}
	if err := CreateRegularArrival(context.Background(), db, nil, 1, supplierID, int(day.Weekday())+1, "08:00", 60); err != nil {
		t.Fatalf("create regular other day: %v", err)
	}
	if err := CreateAdditionalArrival(context.Background(), db, nil, 1, supplierID, day, "10:30", 90); err != nil {
		t.Fatalf("create additional: %v", err)
	}

	rows, err := ListArrivalsForDay(context.Background(), db, day)
	if err != nil {
		t.Fatalf("list arrivals: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 arrivals for the day, got %d", len(rows))
	}
	if rows[0].PlanTime != "08:00" || rows[1].PlanTime != "10:30" {
		t.Fatalf("expected arrivals ordered by plan time, got %s then %s", rows[0].PlanTime, rows[1].PlanTime)
	}
}

func TestCreateArrival_Validation(t *testing.T) {
	db := openArrivalsTestDB(t)
	supplierID := seedSupplier(t, db, "BP002")

	if err := CreateRegularArrival(context.Background(), db, nil, 1, 0, 1, "08:00", 60); !errors.Is(err, ErrSupplierRequired) {
		t.Fatalf("expected ErrSupplierRequired, got %v", err)
	}
	if err := CreateRegularArrival(context.Background(), db, nil, 1, supplierID, 1, "", 60); !errors.Is(err, ErrPlanTimeRequired) {
		t.Fatalf("expected ErrPlanTimeRequired, got %v", err)
	}
	if err := CreateRegularArrival(context.Background(), db, nil, 1, supplierID, 1, "25:99", 60); !errors.Is(err, ErrInvalidPlanHour) {
		t.Fatalf("expected ErrInvalidPlanHour, got %v", err)
	}
	if err := CreateRegularArrival(context.Background(), db, nil, 1, supplierID, 9, "08:00", 60); err == nil {
		t.Fatalf("expected weekday validation error")
	}
}

func TestCheckInCheckOut_Lifecycle(t *testing.T) {
	db := openArrivalsTestDB(t)
	supplierID := seedSupplier(t, db, "BP003")
	day := time.Now()
	if err := CreateAdditionalArrival(context.Background(), db, nil, 1, supplierID, day, "09:00", 45); err != nil {
		t.Fatalf("create arrival: %v", err)
	}
	rows, err := ListArrivalsForDay(context.Background(), db, day)
	if err != nil || len(rows) == 0 {
		t.Fatalf("list arrivals: n=%d err=%v", len(rows), err)
	}
	arrivalID := rows[0].ID
	dockID := firstOpenDockID(t, db)

	if err := CheckInArrival(context.Background(), db, nil, 1, arrivalID, dockID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if err := CheckInArrival(context.Background(), db, nil, 1, arrivalID, dockID); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}

	got, err := LoadArrivalByID(context.Background(), db, arrivalID)
	if err != nil {
		t.Fatalf("load arrival: %v", err)
	}
	if got.Status != "checked_in" || got.CheckedInAtUK == "" {
		t.Fatalf("expected checked_in with timestamp, got status=%s in=%q", got.Status, got.CheckedInAtUK)
	}

	if err := CheckOutArrival(context.Background(), db, nil, 1, arrivalID); err != nil {
		t.Fatalf("check out: %v", err)
	}
	got, err = LoadArrivalByID(context.Background(), db, arrivalID)
	if err != nil {
		t.Fatalf("reload arrival: %v", err)
	}
	if got.Status != "completed" || got.CheckedOutAtUK == "" {
		t.Fatalf("expected completed with timestamp, got status=%s out=%q", got.Status, got.CheckedOutAtUK)
	}

	if err := CheckOutArrival(context.Background(), db, nil, 1, arrivalID); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
}

func TestCheckIn_RefusesOccupiedDock(t *testing.T) {
	db := openArrivalsTestDB(t)
	supplierID := seedSupplier(t, db, "BP004")
	day := time.Now()
	for i := 0; i < 2; i++ {
		if err := CreateAdditionalArrival(context.Background(), db, nil, 1, supplierID, day, "09:00", 45); err != nil {
			t.Fatalf("create arrival: %v", err)
		}
	}
	rows, err := ListArrivalsForDay(context.Background(), db, day)
	if err != nil || len(rows) != 2 {
		t.Fatalf("list arrivals: n=%d err=%v", len(rows), err)
	}
	dockID := firstOpenDockID(t, db)

	if err := CheckInArrival(context.Background(), db, nil, 1, rows[0].ID, dockID); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	if err := CheckInArrival(context.Background(), db, nil, 1, rows[1].ID, dockID); !errors.Is(err, ErrDockUnavailable) {
		t.Fatalf("expected ErrDockUnavailable, got %v", err)
	}
}
