package arrivals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/sqlite"
)

var (
	ErrSupplierRequired  = errors.New("supplier is required")
	ErrPlanTimeRequired  = errors.New("planned time is required")
	ErrAlreadyCheckedIn  = errors.New("arrival is already checked in")
	ErrNotCheckedIn      = errors.New("arrival is not checked in")
	ErrDockUnavailable   = errors.New("dock is closed or occupied")
	ErrArrivalNotFound   = errors.New("arrival not found")
	ErrInvalidPlanDate   = errors.New("invalid plan date")
	ErrInvalidPlanHour   = errors.New("planned time must be HH:MM")
)

const arrivalSelect = `
SELECT a.id, sp.name AS supplier_name, sp.bp_code,
       COALESCE(d.name, '') AS dock_name,
       a.kind, a.plan_weekday, a.plan_time,
       COALESCE(strftime('%d/%m/%Y', a.plan_date), '') AS plan_date_uk,
       a.unload_minutes, a.status,
       COALESCE(strftime('%d/%m/%Y %H:%M', a.checked_in_at), '') AS checked_in_at_uk,
       COALESCE(strftime('%d/%m/%Y %H:%M', a.checked_out_at), '') AS checked_out_at_uk
FROM arrivals a
JOIN suppliers sp ON sp.id = a.supplier_id
LEFT JOIN docks d ON d.id = a.dock_id`

// ListArrivalsForDay returns the board for one day: additional arrivals dated
// that day plus regular arrivals planned on that weekday.
func ListArrivalsForDay(ctx context.Context, db *sqlite.DB, day time.Time) ([]ArrivalView, error) {
	rows := make([]ArrivalView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(arrivalSelect+`
WHERE (a.kind = 'additional' AND date(a.plan_date) = date(?))
   OR (a.kind = 'regular' AND a.plan_weekday = ?)
ORDER BY a.plan_time ASC, sp.bp_code ASC`,
			day.Format("2006-01-02"), int(day.Weekday())).Scan(ctx, &rows)
	})
	return rows, err
}

// ListWeeklySchedule returns all regular arrivals ordered for the schedule grid.
func ListWeeklySchedule(ctx context.Context, db *sqlite.DB) ([]ArrivalView, error) {
	rows := make([]ArrivalView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(arrivalSelect+`
WHERE a.kind = 'regular'
ORDER BY a.plan_weekday ASC, a.plan_time ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

func LoadArrivalByID(ctx context.Context, db *sqlite.DB, id int64) (ArrivalView, error) {
	var row ArrivalView
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(arrivalSelect+` WHERE a.id = ?`, id).Scan(ctx, &row)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ArrivalView{}, ErrArrivalNotFound
	}
	return row, err
}

func ListDocks(ctx context.Context, db *sqlite.DB) ([]DockView, error) {
	rows := make([]DockView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id, name, status FROM docks ORDER BY name ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

func ListSupplierOptions(ctx context.Context, db *sqlite.DB) ([]SupplierOption, error) {
	rows := make([]SupplierOption, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, bp_code || ' - ' || name AS label
FROM suppliers
WHERE active = 1
ORDER BY bp_code ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

// CreateRegularArrival schedules a recurring weekly arrival.
func CreateRegularArrival(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, supplierID int64, weekday int, planTime string, unloadMinutes int64) error {
	if supplierID <= 0 {
		return ErrSupplierRequired
	}
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("invalid weekday %d", weekday)
	}
	planTime, err := normalizePlanTime(planTime)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO arrivals (supplier_id, kind, plan_weekday, plan_time, unload_minutes)
VALUES (?, 'regular', ?, ?, ?)`, supplierID, weekday, planTime, unloadMinutes)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		if auditSvc != nil {
			after := map[string]any{"supplier_id": supplierID, "weekday": weekday, "plan_time": planTime}
			return auditSvc.Write(ctx, tx, userID, "arrival.create_regular", "arrivals", fmt.Sprintf("%d", id), nil, after)
		}
		return nil
	})
}

// CreateAdditionalArrival schedules a one-off arrival on a specific date.
func CreateAdditionalArrival(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, supplierID int64, planDate time.Time, planTime string, unloadMinutes int64) error {
	if supplierID <= 0 {
		return ErrSupplierRequired
	}
	if planDate.IsZero() {
		return ErrInvalidPlanDate
	}
	planTime, err := normalizePlanTime(planTime)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO arrivals (supplier_id, kind, plan_date, plan_time, unload_minutes)
VALUES (?, 'additional', ?, ?, ?)`, supplierID, planDate.Format("2006-01-02"), planTime, unloadMinutes)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		if auditSvc != nil {
			after := map[string]any{"supplier_id": supplierID, "plan_date": planDate.Format("2006-01-02"), "plan_time": planTime}
			return auditSvc.Write(ctx, tx, userID, "arrival.create_additional", "arrivals", fmt.Sprintf("%d", id), nil, after)
		}
		return nil
	})
}

// CheckInArrival records the actual arrival and assigns a dock. A dock already
// holding a checked-in arrival, or one not open, is refused.
func CheckInArrival(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, arrivalID, dockID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var status string
		if err := tx.NewRaw(`SELECT status FROM arrivals WHERE id = ?`, arrivalID).Scan(ctx, &status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArrivalNotFound
			}
			return err
		}
		if status == "checked_in" {
			return ErrAlreadyCheckedIn
		}

		var available int
		if err := tx.NewRaw(`
SELECT COUNT(1) FROM docks d
WHERE d.id = ? AND d.status = 'open'
  AND NOT EXISTS (SELECT 1 FROM arrivals a WHERE a.dock_id = d.id AND a.status = 'checked_in')`,
			dockID).Scan(ctx, &available); err != nil {
			return err
		}
		if available == 0 {
			return ErrDockUnavailable
		}

		if _, err := tx.ExecContext(ctx, `
UPDATE arrivals
SET dock_id = ?, status = 'checked_in', checked_in_at = CURRENT_TIMESTAMP,
    checked_out_at = NULL, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, dockID, arrivalID); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"dock_id": dockID, "status": "checked_in"}
			return auditSvc.Write(ctx, tx, userID, "arrival.checkin", "arrivals", fmt.Sprintf("%d", arrivalID), nil, after)
		}
		return nil
	})
}

// CheckOutArrival records the departure and frees the dock. The status stays
// incomplete when a scan marked it so; otherwise the visit completes.
func CheckOutArrival(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, arrivalID int64) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var status string
		if err := tx.NewRaw(`SELECT status FROM arrivals WHERE id = ?`, arrivalID).Scan(ctx, &status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArrivalNotFound
			}
			return err
		}
		if status != "checked_in" && status != "incomplete" {
			return ErrNotCheckedIn
		}

		next := "completed"
		if status == "incomplete" {
			next = "incomplete"
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE arrivals
SET status = ?, checked_out_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, next, arrivalID); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"status": next}
			return auditSvc.Write(ctx, tx, userID, "arrival.checkout", "arrivals", fmt.Sprintf("%d", arrivalID), nil, after)
		}
		return nil
	})
}

func normalizePlanTime(planTime string) (string, error) {
	planTime = strings.TrimSpace(planTime)
	if planTime == "" {
		return "", ErrPlanTimeRequired
	}
	if _, err := time.Parse("15:04", planTime); err != nil {
		return "", ErrInvalidPlanHour
	}
	return planTime, nil
}
