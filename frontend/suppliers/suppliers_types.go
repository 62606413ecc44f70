package suppliers

import "dockhand/frontend/shared/tableview"

type SupplierView struct {
	ID           int64  `bun:"id"`
	BPCode       string `bun:"bp_code"`
	Name         string `bun:"name"`
	ContactEmail string `bun:"contact_email"`
	Phone        string `bun:"phone"`
	Active       int64  `bun:"active"`
	CreatedAtUK  string `bun:"created_at_uk"`
}

type PageData struct {
	Result       tableview.Result
	State        tableview.State
	IsAdmin      bool
	Status       string
	ErrorMessage string
}
