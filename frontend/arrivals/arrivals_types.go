package arrivals

import "dockhand/frontend/shared/tableview"

type ArrivalView struct {
	ID             int64  `bun:"id"`
	SupplierName   string `bun:"supplier_name"`
	BPCode         string `bun:"bp_code"`
	DockName       string `bun:"dock_name"`
	Kind           string `bun:"kind"`
	PlanWeekday    int64  `bun:"plan_weekday"`
	PlanTime       string `bun:"plan_time"`
	PlanDateUK     string `bun:"plan_date_uk"`
	UnloadMinutes  int64  `bun:"unload_minutes"`
	Status         string `bun:"status"`
	CheckedInAtUK  string `bun:"checked_in_at_uk"`
	CheckedOutAtUK string `bun:"checked_out_at_uk"`
}

type DockView struct {
	ID     int64  `bun:"id"`
	Name   string `bun:"name"`
	Status string `bun:"status"`
}

type SupplierOption struct {
	ID    int64  `bun:"id"`
	Label string `bun:"label"`
}

type BoardPageData struct {
	Result       tableview.Result
	State        tableview.State
	Docks        []DockView
	Suppliers    []SupplierOption
	IsAdmin      bool
	Status       string
	ErrorMessage string
}

type SchedulePageData struct {
	Days         [7][]ArrivalView
	Status       string
	ErrorMessage string
}
