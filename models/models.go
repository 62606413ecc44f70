package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents an authenticated app user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Username     string    `bun:"username,unique,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Session is used by middleware and auth handlers.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID                string         `bun:"id,pk"`
	UserID            int64          `bun:"user_id,notnull"`
	User              User           `bun:"rel:belongs-to,join:user_id=id"`
	UserRoles         []string       `bun:"-"`
	ScreenPermissions map[string]int `bun:"-"`
	ExpiresAt         time.Time      `bun:"expires_at,notnull"`
	CreatedAt         time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Supplier is a business partner delivering into the warehouse.
type Supplier struct {
	bun.BaseModel `bun:"table:suppliers,alias:sp"`

	ID           int64     `bun:"id,pk,autoincrement"`
	BPCode       string    `bun:"bp_code,unique,notnull"`
	Name         string    `bun:"name,notnull"`
	ContactEmail string    `bun:"contact_email"`
	Phone        string    `bun:"phone"`
	Active       bool      `bun:"active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Dock is a physical unloading bay.
type Dock struct {
	bun.BaseModel `bun:"table:docks,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,unique,notnull"`
	Status    string    `bun:"status,notnull,default:'open'"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Arrival is a supplier vehicle visit, regular (recurring weekly) or additional (one-off).
type Arrival struct {
	bun.BaseModel `bun:"table:arrivals,alias:a"`

	ID            int64      `bun:"id,pk,autoincrement"`
	SupplierID    int64      `bun:"supplier_id,notnull"`
	Supplier      Supplier   `bun:"rel:belongs-to,join:supplier_id=id"`
	DockID        *int64     `bun:"dock_id"`
	Kind          string     `bun:"kind,notnull"`
	PlanWeekday   int        `bun:"plan_weekday,notnull,default:0"`
	PlanTime      string     `bun:"plan_time,notnull,default:''"`
	PlanDate      *time.Time `bun:"plan_date"`
	UnloadMinutes int64      `bun:"unload_minutes,notnull,default:0"`
	Status        string     `bun:"status,notnull,default:'scheduled'"`
	CheckedInAt   *time.Time `bun:"checked_in_at"`
	CheckedOutAt  *time.Time `bun:"checked_out_at"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// DeliveryNote groups the line items declared for one arrival.
type DeliveryNote struct {
	bun.BaseModel `bun:"table:delivery_notes,alias:dn"`

	ID         int64     `bun:"id,pk,autoincrement"`
	DNNumber   string    `bun:"dn_number,unique,notnull"`
	SupplierID int64     `bun:"supplier_id,notnull"`
	ArrivalID  *int64    `bun:"arrival_id"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// DNItem is one declared line of a delivery note.
//
// scanned_qty never exceeds total_qty; the scan service enforces the cap
// inside its write transaction.
type DNItem struct {
	bun.BaseModel `bun:"table:dn_items,alias:di"`

	ID         int64     `bun:"id,pk,autoincrement"`
	DNID       int64     `bun:"dn_id,notnull"`
	PartNo     string    `bun:"part_no,notnull"`
	TotalQty   int64     `bun:"total_qty,notnull"`
	ScannedQty int64     `bun:"scanned_qty,notnull,default:0"`
	QtyPerBox  int64     `bun:"qty_per_box,notnull,default:1"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ScanSession is the server-tracked unit of work reconciling one DN.
//
// An abandoned session stays active so a later scan of the same DN resumes it.
type ScanSession struct {
	bun.BaseModel `bun:"table:scan_sessions,alias:ss"`

	ID        string    `bun:"id,pk"`
	DNID      int64     `bun:"dn_id,notnull"`
	ArrivalID int64     `bun:"arrival_id,notnull"`
	Status    string    `bun:"status,notnull,default:'active'"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// ScanEvent records one accepted item label scan.
type ScanEvent struct {
	bun.BaseModel `bun:"table:scan_events,alias:se"`

	ID        int64     `bun:"id,pk,autoincrement"`
	SessionID string    `bun:"session_id,notnull"`
	PartNo    string    `bun:"part_no,notnull"`
	LotNo     string    `bun:"lot_no,notnull"`
	Qty       int64     `bun:"qty,notnull"`
	UserID    int64     `bun:"user_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Setting is a key/value row for tunable behavior (scoring weights, grace window).
type Setting struct {
	bun.BaseModel `bun:"table:settings,alias:st"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
