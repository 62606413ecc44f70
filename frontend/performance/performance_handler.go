package performance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dockhand/frontend/shared/export"
	"dockhand/frontend/shared/tableview"
	"dockhand/infrastructure/sqlite"
)

// PerformancePageQueryHandler renders the supplier scoreboard for a date range
// (defaults to the last 30 days).
func PerformancePageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := parseRange(r)

		scores, err := LoadSupplierScores(r.Context(), db, from, to)
		if err != nil {
			slog.Error("performance: failed to load scores", slog.Any("err", err))
			http.Error(w, "failed to load performance data", http.StatusInternalServerError)
			return
		}

		state := tableview.StateFromQuery(r.URL.Query())
		if state.SortKey == "" {
			state.SortKey = "total"
			state.SortOrder = "desc"
		}
		res, state := tableview.ComputeClamped(toTableRows(scores), scoreColumns, state)

		data := PageData{
			Result:       res,
			State:        state,
			From:         from,
			To:           to,
			Status:       r.URL.Query().Get("status"),
			ErrorMessage: r.URL.Query().Get("error"),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := PerformancePage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render performance page", http.StatusInternalServerError)
			return
		}
	}
}

// PerformanceExportCSVHandler streams the scoreboard as CSV.
func PerformanceExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := parseRange(r)
		scores, err := LoadSupplierScores(r.Context(), db, from, to)
		if err != nil {
			http.Error(w, "failed to load performance data", http.StatusInternalServerError)
			return
		}
		export.CSV(w, "supplier-performance.csv", exportHeaders, toExportRows(scores))
	}
}

// PerformanceExportXLSXHandler streams the scoreboard as a spreadsheet.
func PerformanceExportXLSXHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := parseRange(r)
		scores, err := LoadSupplierScores(r.Context(), db, from, to)
		if err != nil {
			http.Error(w, "failed to load performance data", http.StatusInternalServerError)
			return
		}
		export.Excel(w, "Performance", exportHeaders, toExportRows(scores))
	}
}

var exportHeaders = []string{"bp_code", "supplier", "arrivals", "on_time_rate", "quantity_accuracy", "completion_rate", "score"}

func toExportRows(scores []SupplierScore) [][]string {
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		rows = append(rows, []string{
			s.BPCode,
			s.Name,
			strconv.FormatInt(s.Metrics.Arrivals, 10),
			s.OnTime,
			s.Quantity,
			s.Completion,
			s.Total,
		})
	}
	return rows
}

func parseRange(r *http.Request) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			to = parsed
		}
	}
	if to.Before(from) {
		from, to = to, from
	}
	return from, to
}

func toTableRows(scores []SupplierScore) []tableview.Row {
	out := make([]tableview.Row, 0, len(scores))
	for _, s := range scores {
		out = append(out, tableview.Row{
			"bp_code":    s.BPCode,
			"name":       s.Name,
			"arrivals":   s.Metrics.Arrivals,
			"on_time":    s.OnTime,
			"quantity":   s.Quantity,
			"completion": s.Completion,
			"total":      s.Total,
		})
	}
	return out
}

var scoreColumns = []tableview.Column{
	{Key: "bp_code", Label: "BP Code"},
	{Key: "name", Label: "Supplier"},
	{Key: "arrivals", Label: "Arrivals"},
	{Key: "on_time", Label: "On time"},
	{Key: "quantity", Label: "Quantity"},
	{Key: "completion", Label: "Completion"},
	{Key: "total", Label: "Score"},
}
