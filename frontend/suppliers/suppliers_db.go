package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/sqlite"
)

var (
	ErrBPCodeRequired = errors.New("bp code is required")
	ErrNameRequired   = errors.New("supplier name is required")
	ErrBPCodeExists   = errors.New("bp code already exists")
)

func ListSuppliers(ctx context.Context, db *sqlite.DB) ([]SupplierView, error) {
	rows := make([]SupplierView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, bp_code, name, contact_email, phone, active,
       strftime('%d/%m/%Y', created_at) AS created_at_uk
FROM suppliers
ORDER BY bp_code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

func LoadSupplierByID(ctx context.Context, db *sqlite.DB, id int64) (SupplierView, error) {
	var row SupplierView
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, bp_code, name, contact_email, phone, active,
       strftime('%d/%m/%Y', created_at) AS created_at_uk
FROM suppliers
WHERE id = ?`, id).Scan(ctx, &row)
	})
	return row, err
}

func CreateSupplier(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, bpCode, name, contactEmail, phone string) error {
	bpCode = strings.ToUpper(strings.TrimSpace(bpCode))
	name = strings.TrimSpace(name)
	if bpCode == "" {
		return ErrBPCodeRequired
	}
	if name == "" {
		return ErrNameRequired
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var exists int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM suppliers WHERE bp_code = ?`, bpCode).Scan(ctx, &exists); err != nil {
			return err
		}
		if exists > 0 {
			return ErrBPCodeExists
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO suppliers (bp_code, name, contact_email, phone, active)
VALUES (?, ?, ?, ?, 1)`, bpCode, name, strings.TrimSpace(contactEmail), strings.TrimSpace(phone))
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()

		if auditSvc != nil {
			after := map[string]any{"bp_code": bpCode, "name": name}
			return auditSvc.Write(ctx, tx, userID, "supplier.create", "suppliers", fmt.Sprintf("%d", id), nil, after)
		}
		return nil
	})
}

func UpdateSupplier(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID, id int64, name, contactEmail, phone string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before SupplierView
		if err := tx.NewRaw(`
SELECT id, bp_code, name, contact_email, phone, active FROM suppliers WHERE id = ?`, id).Scan(ctx, &before); err != nil {
			return err
		}

		activeInt := 0
		if active {
			activeInt = 1
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE suppliers
SET name = ?, contact_email = ?, phone = ?, active = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, name, strings.TrimSpace(contactEmail), strings.TrimSpace(phone), activeInt, id); err != nil {
			return err
		}

		if auditSvc != nil {
			after := map[string]any{"name": name, "contact_email": contactEmail, "phone": phone, "active": active}
			return auditSvc.Write(ctx, tx, userID, "supplier.update", "suppliers", fmt.Sprintf("%d", id), before, after)
		}
		return nil
	})
}
