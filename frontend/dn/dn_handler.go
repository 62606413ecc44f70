package dn

import (
	"errors"
	"fmt"
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
)

// DNListPageQueryHandler renders the delivery note list.
func DNListPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := ListDeliveryNotes(r.Context(), db)
		if err != nil {
			slog.Error("dn: failed to load list", slog.Any("err", err))
			http.Error(w, "failed to load delivery notes", http.StatusInternalServerError)
			return
		}

		state := tableview.StateFromQuery(r.URL.Query())
		res, state := tableview.ComputeClamped(toTableRows(rows), dnColumns, state)

		data := PageData{
			Result:       res,
			State:        state,
			Status:       r.URL.Query().Get("status"),
			ErrorMessage: r.URL.Query().Get("error"),
		}
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			data.IsAdmin = session.User.Role == rbac.RoleAdmin
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DNListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render delivery notes page", http.StatusInternalServerError)
			return
		}
	}
}

// DNDocumentPDFHandler streams the barcoded document for one delivery note.
func DNDocumentPDFHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid delivery note id", http.StatusBadRequest)
			return
		}

		data, err := LoadDNDocument(r.Context(), db, id)
		if err != nil {
			if errors.Is(err, ErrDNNotFound) {
				http.Error(w, "delivery note not found", http.StatusNotFound)
				return
			}
			slog.Error("dn: failed to load document", slog.Int64("id", id), slog.Any("err", err))
			http.Error(w, "failed to load delivery note", http.StatusInternalServerError)
			return
		}

		pdfBytes, err := renderDNDocumentPDF(data, time.Now())
		if err != nil {
			slog.Error("dn: failed to render pdf", slog.Int64("id", id), slog.Any("err", err))
			http.Error(w, "failed to render document", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", data.DNNumber))
		_, _ = w.Write(pdfBytes)
	}
}

// ImportDNCommandHandler ingests the declared-quantities CSV upload.
func ImportDNCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			http.Redirect(w, r, "/tasker/dn?error="+url.QueryEscape("invalid upload"), http.StatusSeeOther)
			return
		}
		file, _, err := r.FormFile("csv_file")
		if err != nil {
			http.Redirect(w, r, "/tasker/dn?error="+url.QueryEscape("select a CSV file"), http.StatusSeeOther)
			return
		}
		defer file.Close()

		summary, err := ImportCSV(r.Context(), db, auditSvc, session.UserID, file)
		if err != nil {
			http.Redirect(w, r, "/tasker/dn?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		status := fmt.Sprintf("import finished: %d inserted, %d updated, %d errors",
			summary.Inserted, summary.Updated, summary.Errors)
		http.Redirect(w, r, "/tasker/dn?status="+url.QueryEscape(status), http.StatusSeeOther)
	}
}

func toTableRows(rows []DNView) []tableview.Row {
	out := make([]tableview.Row, 0, len(rows))
	for _, n := range rows {
		out = append(out, tableview.Row{
			"id":        n.ID,
			"dn_number": n.DNNumber,
			"supplier": tableview.Row{
				"name":    n.SupplierName,
				"bp_code": n.BPCode,
			},
			"items":    n.ItemCount,
			"declared": n.TotalQty,
			"scanned":  n.ScannedQty,
			"created":  n.CreatedAtUK,
		})
	}
	return out
}

var dnColumns = []tableview.Column{
	{Key: "dn_number", Label: "DN Number"},
	{Key: "supplier.bp_code", Label: "BP Code"},
	{Key: "supplier.name", Label: "Supplier"},
	{Key: "items", Label: "Lines"},
	{Key: "declared", Label: "Declared"},
	{Key: "scanned", Label: "Scanned"},
	{Key: "created", Label: "Created"},
	{Key: "id", Label: "", Unsortable: true, Render: func(v any, _ tableview.Row, _ int) string {
		id, _ := v.(int64)
		return `<a href="/tasker/dn/` + strconv.FormatInt(id, 10) + `/document.pdf">Document</a>`
	}},
}
