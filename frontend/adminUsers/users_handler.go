package adminusers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dockhand/frontend/shared/context"
	"dockhand/frontend/shared/html"
	"dockhand/frontend/shared/tableview"
	"dockhand/infrastructure/audit"
	"dockhand/infrastructure/cache"
	"dockhand/infrastructure/sqlite"
)

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := LoadUsersPageData(r.Context(), db)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}

		state := tableview.StateFromQuery(r.URL.Query())
		data.Result, data.State = tableview.ComputeClamped(toTableRows(data.Users), userColumns, state)

		data.Status = r.URL.Query().Get("status")
		data.ErrorMessage = r.URL.Query().Get("error")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

func CreateUserCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		role := strings.TrimSpace(r.FormValue("role"))

		if err := CreateUser(r.Context(), db, auditSvc, actorID(r), username, password, role); err != nil {
			// Sentinel and password policy messages are safe to show.
			http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, "/tasker/admin/users?status="+url.QueryEscape("user created"), http.StatusSeeOther)
	}
}

func UpdateUserRoleCommandHandler(db *sqlite.DB, auditSvc *audit.Service, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("user_id")), 10, 64)
		if err != nil || userID <= 0 {
			http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape("invalid user"), http.StatusSeeOther)
			return
		}
		role := strings.TrimSpace(r.FormValue("role"))
		username := strings.TrimSpace(r.FormValue("username"))

		if err := SetUserRole(r.Context(), db, auditSvc, actorID(r), userID, role); err != nil {
			switch {
			case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrUserNotFound):
				http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			default:
				http.Redirect(w, r, "/tasker/admin/users?error="+url.QueryEscape("failed to update role"), http.StatusSeeOther)
			}
			return
		}
		if username != "" {
			userCache.Delete(username)
		}

		http.Redirect(w, r, "/tasker/admin/users?status="+url.QueryEscape("role updated"), http.StatusSeeOther)
	}
}

func toTableRows(users []UserView) []tableview.Row {
	out := make([]tableview.Row, 0, len(users))
	for _, u := range users {
		out = append(out, tableview.Row{
			"id":       u.ID,
			"username": u.Username,
			"role":     u.Role,
			"created":  u.CreatedAt,
		})
	}
	return out
}

var userColumns = []tableview.Column{
	{Key: "username", Label: "Username"},
	{Key: "role", Label: "Role"},
	{Key: "created", Label: "Created"},
	{Key: "id", Label: "", Unsortable: true, Render: func(v any, row tableview.Row, _ int) string {
		id, _ := v.(int64)
		username, _ := row["username"].(string)
		role, _ := row["role"].(string)
		return `<form method="post" action="/tasker/admin/users/role">` +
			fmt.Sprintf(`<input type="hidden" name="user_id" value="%d">`, id) +
			`<input type="hidden" name="username" value="` + html.EscapeString(username) + `">` +
			roleSelect(role) +
			`<button type="submit">Change role</button>` +
			`</form>`
	}},
}

func actorID(r *http.Request) int64 {
	session, ok := context.GetSessionFromContext(r.Context())
	if !ok {
		return 0
	}
	return session.UserID
}
