package performance

import (
	"time"

	"dockhand/frontend/shared/tableview"
)

type SupplierScore struct {
	SupplierID int64
	BPCode     string
	Name       string
	Metrics    Metrics
	OnTime     string
	Quantity   string
	Completion string
	Total      string
}

type PageData struct {
	Result       tableview.Result
	State        tableview.State
	From         time.Time
	To           time.Time
	Status       string
	ErrorMessage string
}
