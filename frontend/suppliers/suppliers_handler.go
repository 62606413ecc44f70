package suppliers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	sessioncontext "dockhand/frontend/shared/context"
	"dockhand/frontend/shared/tableview"
	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/rbac"
	"dockhand/infrastructure/sqlite"
)

// SuppliersPageQueryHandler renders the BP-code master list.
func SuppliersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := ListSuppliers(r.Context(), db)
		if err != nil {
			slog.Error("suppliers: failed to load list", slog.Any("err", err))
			http.Error(w, "failed to load suppliers", http.StatusInternalServerError)
			return
		}

		state := tableview.StateFromQuery(r.URL.Query())
		res, state := tableview.ComputeClamped(toTableRows(rows), supplierColumns, state)

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
		if err := SuppliersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render suppliers page", http.StatusInternalServerError)
			return
		}
	}
}

// SupplierEditPageQueryHandler renders the edit form for one supplier.
func SupplierEditPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("invalid supplier id"), http.StatusSeeOther)
			return
		}
		supplier, err := LoadSupplierByID(r.Context(), db, id)
		if err != nil {
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("supplier not found"), http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := SupplierEditPage(supplier, r.URL.Query().Get("error")).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render supplier edit page", http.StatusInternalServerError)
			return
		}
	}
}

func CreateSupplierCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		err := CreateSupplier(r.Context(), db, auditSvc, session.UserID,
			r.FormValue("bp_code"), r.FormValue("name"), r.FormValue("contact_email"), r.FormValue("phone"))
		if err != nil {
			switch {
			case errors.Is(err, ErrBPCodeRequired), errors.Is(err, ErrNameRequired), errors.Is(err, ErrBPCodeExists):
				http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			default:
				slog.Error("suppliers: create failed", slog.Any("err", err))
				http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("failed to create supplier"), http.StatusSeeOther)
			}
			return
		}

		http.Redirect(w, r, "/tasker/suppliers?status="+url.QueryEscape("supplier created"), http.StatusSeeOther)
	}
}

func UpdateSupplierCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("invalid supplier id"), http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		active := r.FormValue("active") != ""
		err = UpdateSupplier(r.Context(), db, auditSvc, session.UserID, id,
			r.FormValue("name"), r.FormValue("contact_email"), r.FormValue("phone"), active)
		if err != nil {
			if errors.Is(err, ErrNameRequired) {
				http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
				return
			}
			slog.Error("suppliers: update failed", slog.Int64("id", id), slog.Any("err", err))
			http.Redirect(w, r, "/tasker/suppliers?error="+url.QueryEscape("failed to update supplier"), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/tasker/suppliers?status="+url.QueryEscape("supplier updated"), http.StatusSeeOther)
	}
}

func toTableRows(rows []SupplierView) []tableview.Row {
	out := make([]tableview.Row, 0, len(rows))
	for _, s := range rows {
		status := "inactive"
		if s.Active != 0 {
			status = "active"
		}
		out = append(out, tableview.Row{
			"id":      s.ID,
			"bp_code": s.BPCode,
			"name":    s.Name,
			"contact": tableview.Row{"email": s.ContactEmail, "phone": s.Phone},
			"status":  status,
			"created": s.CreatedAtUK,
		})
	}
	return out
}

var supplierColumns = []tableview.Column{
	{Key: "bp_code", Label: "BP Code"},
	{Key: "name", Label: "Name"},
	{Key: "contact.email", Label: "Email"},
	{Key: "contact.phone", Label: "Phone", Unsortable: true},
	{Key: "status", Label: "Status"},
	{Key: "created", Label: "Created"},
	{Key: "id", Label: "", Unsortable: true, Render: func(v any, _ tableview.Row, _ int) string {
		return `<a href="/tasker/suppliers/` + strings.TrimSpace(stringID(v)) + `/edit">Edit</a>`
	}},
}

func stringID(v any) string {
	if id, ok := v.(int64); ok {
		return strconv.FormatInt(id, 10)
	}
	return ""
}
