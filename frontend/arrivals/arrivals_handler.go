package arrivals

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "dockhand/frontend/shared/context"
	"dockhand/frontend/shared/tableview"
	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/rbac"
	"dockhand/infrastructure/sqlite"
	"dockhand/infrastructure/ws"
)

// ArrivalsBoardPageQueryHandler renders today's arrivals board.
func ArrivalsBoardPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := time.Now()
		if raw := r.URL.Query().Get("day"); raw != "" {
			if parsed, err := time.Parse("2006-01-02", raw); err == nil {
				day = parsed
			}
		}

		rows, err := ListArrivalsForDay(r.Context(), db, day)
		if err != nil {
			slog.Error("arrivals: failed to load board", slog.Any("err", err))
			http.Error(w, "failed to load arrivals", http.StatusInternalServerError)
			return
		}
		docks, err := ListDocks(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load docks", http.StatusInternalServerError)
			return
		}
		supplierOptions, err := ListSupplierOptions(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load suppliers", http.StatusInternalServerError)
			return
		}

		state := tableview.StateFromQuery(r.URL.Query())
		res, state := tableview.ComputeClamped(toBoardRows(rows), boardColumns, state)

		data := BoardPageData{
			Result:       res,
			State:        state,
			Docks:        docks,
			Suppliers:    supplierOptions,
			Status:       r.URL.Query().Get("status"),
			ErrorMessage: r.URL.Query().Get("error"),
		}
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			data.IsAdmin = session.User.Role == rbac.RoleAdmin
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ArrivalsBoardPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render arrivals board", http.StatusInternalServerError)
			return
		}
	}
}

// WeeklySchedulePageQueryHandler renders the recurring weekly schedule grid.
func WeeklySchedulePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := ListWeeklySchedule(r.Context(), db)
		if err != nil {
			slog.Error("arrivals: failed to load schedule", slog.Any("err", err))
			http.Error(w, "failed to load schedule", http.StatusInternalServerError)
			return
		}

		var data SchedulePageData
		for _, row := range rows {
			d := int(row.PlanWeekday)
			if d < 0 || d > 6 {
				continue
			}
			data.Days[d] = append(data.Days[d], row)
		}
		data.Status = r.URL.Query().Get("status")
		data.ErrorMessage = r.URL.Query().Get("error")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := WeeklySchedulePage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render schedule page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateArrivalCommandHandler handles both arrival kinds; the form's kind
// field selects between a weekly slot and a dated one-off.
func CreateArrivalCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		supplierID, _ := strconv.ParseInt(r.FormValue("supplier_id"), 10, 64)
		planTime := r.FormValue("plan_time")
		unloadMinutes, err := ParseDuration(r.FormValue("unload_duration"))
		if err != nil {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		switch r.FormValue("kind") {
		case "regular":
			weekday, convErr := strconv.Atoi(r.FormValue("weekday"))
			if convErr != nil {
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid weekday"), http.StatusSeeOther)
				return
			}
			err = CreateRegularArrival(r.Context(), db, auditSvc, session.UserID, supplierID, weekday, planTime, unloadMinutes)
		case "additional":
			planDate, convErr := time.Parse("2006-01-02", r.FormValue("plan_date"))
			if convErr != nil {
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid plan date"), http.StatusSeeOther)
				return
			}
			err = CreateAdditionalArrival(r.Context(), db, auditSvc, session.UserID, supplierID, planDate, planTime, unloadMinutes)
		default:
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid arrival kind"), http.StatusSeeOther)
			return
		}

		if err != nil {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/tasker/arrivals?status="+url.QueryEscape("arrival scheduled"), http.StatusSeeOther)
	}
}

func CheckInArrivalCommandHandler(db *sqlite.DB, auditSvc *audit.Service, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		arrivalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || arrivalID <= 0 {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid arrival id"), http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}
		dockID, err := strconv.ParseInt(r.FormValue("dock_id"), 10, 64)
		if err != nil || dockID <= 0 {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("select a dock"), http.StatusSeeOther)
			return
		}

		if err := CheckInArrival(r.Context(), db, auditSvc, session.UserID, arrivalID, dockID); err != nil {
			switch {
			case errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrDockUnavailable), errors.Is(err, ErrArrivalNotFound):
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			default:
				slog.Error("arrivals: check-in failed", slog.Int64("arrival", arrivalID), slog.Any("err", err))
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("check-in failed"), http.StatusSeeOther)
			}
			return
		}

		if hub != nil {
			hub.BroadcastChange("arrival", "checked_in", arrivalID)
		}
		http.Redirect(w, r, "/tasker/arrivals?status="+url.QueryEscape("arrival checked in"), http.StatusSeeOther)
	}
}

func CheckOutArrivalCommandHandler(db *sqlite.DB, auditSvc *audit.Service, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		arrivalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || arrivalID <= 0 {
			http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("invalid arrival id"), http.StatusSeeOther)
			return
		}

		if err := CheckOutArrival(r.Context(), db, auditSvc, session.UserID, arrivalID); err != nil {
			switch {
			case errors.Is(err, ErrNotCheckedIn), errors.Is(err, ErrArrivalNotFound):
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			default:
				slog.Error("arrivals: check-out failed", slog.Int64("arrival", arrivalID), slog.Any("err", err))
				http.Redirect(w, r, "/tasker/arrivals?error="+url.QueryEscape("check-out failed"), http.StatusSeeOther)
			}
			return
		}

		if hub != nil {
			hub.BroadcastChange("arrival", "checked_out", arrivalID)
		}
		http.Redirect(w, r, "/tasker/arrivals?status="+url.QueryEscape("arrival checked out"), http.StatusSeeOther)
	}
}

func toBoardRows(rows []ArrivalView) []tableview.Row {
	out := make([]tableview.Row, 0, len(rows))
	for _, a := range rows {
		out = append(out, tableview.Row{
			"id": a.ID,
			"supplier": tableview.Row{
				"name":    a.SupplierName,
				"bp_code": a.BPCode,
			},
			"dock":   a.DockName,
			"kind":   a.Kind,
			"plan":   a.PlanTime,
			"unload": FormatMinutes(a.UnloadMinutes),
			"status": a.Status,
			"in":     a.CheckedInAtUK,
			"out":    a.CheckedOutAtUK,
		})
	}
	return out
}

var boardColumns = []tableview.Column{
	{Key: "supplier.bp_code", Label: "BP Code"},
	{Key: "supplier.name", Label: "Supplier"},
	{Key: "plan", Label: "Planned"},
	{Key: "unload", Label: "Unload"},
	{Key: "dock", Label: "Dock"},
	{Key: "status", Label: "Status"},
	{Key: "in", Label: "Checked in"},
	{Key: "out", Label: "Checked out"},
	{Key: "id", Label: "", Unsortable: true, Render: renderBoardActions},
}

func renderBoardActions(v any, row tableview.Row, _ int) string {
	id, _ := v.(int64)
	status, _ := tableview.Get(row, "status").(string)
	idText := strconv.FormatInt(id, 10)
	switch status {
	case "scheduled":
		return `<a href="/tasker/arrivals#checkin-` + idText + `">Check in</a>`
	case "checked_in", "incomplete":
		return `<form method="post" action="/tasker/arrivals/` + idText + `/checkout"><button type="submit">Check out</button></form>`
	default:
		return ""
	}
}
