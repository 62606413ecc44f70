package adminusers

import "dockhand/frontend/shared/tableview"

type UserView struct {
	ID        int64  `bun:"id"`
	Username  string `bun:"username"`
	Role      string `bun:"role"`
	CreatedAt string `bun:"created_at"`
}

type PageData struct {
	Users        []UserView
	Result       tableview.Result
	State        tableview.State
	Status       string
	ErrorMessage string
}
