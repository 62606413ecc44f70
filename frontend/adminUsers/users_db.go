package adminusers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"dockhand/frontend/login"
	"dockhand/infrastructure/argon"
	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/rbac"
	"dockhand/infrastructure/sqlite"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidRole      = errors.New("invalid role")
	ErrUsernameExists   = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
)

func LoadUsersPageData(ctx context.Context, db *sqlite.DB) (PageData, error) {
	users := make([]UserView, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, username, role, strftime('%d/%m/%Y', created_at) AS created_at
FROM users
ORDER BY id ASC`).Scan(ctx, &users)
	})
	return PageData{Users: users}, err
}

func validRole(role string) bool {
	switch role {
	case rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleViewer:
		return true
	}
	return false
}

func CreateUser(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actorID int64, username, password, role string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	role = strings.TrimSpace(role)

	if username == "" {
		return ErrUsernameRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if !validRole(role) {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(password); err != nil {
		return err
	}

	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var exists int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM users WHERE username = ? COLLATE NOCASE`, username).Scan(ctx, &exists); err != nil {
			return err
		}
		if exists > 0 {
			return ErrUsernameExists
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role)
VALUES (?, ?, ?)`, username, hash, role)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()

		if auditSvc != nil {
			after := map[string]any{"username": username, "role": role}
			return auditSvc.Write(ctx, tx, actorID, "user.create", "users", fmt.Sprintf("%d", id), nil, after)
		}
		return nil
	})
}

func SetUserRole(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actorID, userID int64, role string) error {
	role = strings.TrimSpace(role)
	if !validRole(role) {
		return ErrInvalidRole
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var before UserView
		if err := tx.NewRaw(`SELECT id, username, role FROM users WHERE id = ?`, userID).Scan(ctx, &before); err != nil {
			return ErrUserNotFound
		}

		_, err := tx.ExecContext(ctx, `
UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, role, userID)
		if err != nil {
			return err
		}

		if auditSvc != nil {
			beforeImg := map[string]any{"username": before.Username, "role": before.Role}
			after := map[string]any{"username": before.Username, "role": role}
			return auditSvc.Write(ctx, tx, actorID, "user.role", "users", fmt.Sprintf("%d", userID), beforeImg, after)
		}
		return nil
	})
}
