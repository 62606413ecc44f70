package exports

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sessioncontext "dockhand/frontend/shared/context"
	"dockhand/frontend/shared/export"
	"dockhand/infrastructure/sqlite"
)

func ExportsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := dateRange(r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(PageData{From: from, To: to}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
			return
		}
	}
}

// ArrivalsExportHandler serves the arrivals log as CSV or XLSX depending on
// the format query parameter.
func ArrivalsExportHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := dateRange(r)
		rows, err := loadArrivalRows(r.Context(), db, from, to)
		if err != nil {
			http.Error(w, "failed to export arrivals", http.StatusInternalServerError)
			return
		}
		serve(w, r, "arrivals", "Arrivals", arrivalsHeader, rows)
		logRun(r.Context(), db, r, "arrivals_"+format(r))
	}
}

// DNItemsExportHandler serves every delivery note line with its scan progress.
func DNItemsExportHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := loadDNItemRows(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to export delivery notes", http.StatusInternalServerError)
			return
		}
		serve(w, r, "delivery-notes", "DeliveryNotes", dnItemsHeader, rows)
		logRun(r.Context(), db, r, "dn_items_"+format(r))
	}
}

// ScanEventsExportHandler serves the raw scan event log for the date range.
func ScanEventsExportHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := dateRange(r)
		rows, err := loadScanEventRows(r.Context(), db, from, to)
		if err != nil {
			http.Error(w, "failed to export scan events", http.StatusInternalServerError)
			return
		}
		serve(w, r, "scan-events", "ScanEvents", scanEventsHeader, rows)
		logRun(r.Context(), db, r, "scan_events_"+format(r))
	}
}

func serve(w http.ResponseWriter, r *http.Request, filename, sheet string, headers []string, rows [][]string) {
	if format(r) == "xlsx" {
		export.Excel(w, sheet, headers, rows)
		return
	}
	export.CSV(w, filename+".csv", headers, rows)
}

func format(r *http.Request) string {
	if r.URL.Query().Get("format") == "xlsx" {
		return "xlsx"
	}
	return "csv"
}

func logRun(ctx context.Context, db *sqlite.DB, r *http.Request, exportType string) {
	if err := recordExportRun(ctx, db, sessionUserIDFromContext(r), exportType); err != nil {
		slog.Error("record export run failed", slog.String("type", exportType), slog.Any("err", err))
	}
}

func sessionUserIDFromContext(r *http.Request) *int64 {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok || session.UserID <= 0 {
		return nil
	}
	id := session.UserID
	return &id
}

func dateRange(r *http.Request) (string, string) {
	toDay := time.Now()
	fromDay := toDay.AddDate(0, 0, -30)
	from, to := fromDay.Format("2006-01-02"), toDay.Format("2006-01-02")
	if raw := r.URL.Query().Get("from"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err == nil {
			from = raw
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err == nil {
			to = raw
		}
	}
	if to < from {
		from, to = to, from
	}
	return from, to
}
