package help

import (
	"net/http"

	sessioncontext "dockhand/frontend/shared/context"
	"dockhand/infrastructure/rbac"
)

type PageData struct {
	IsAdmin    bool
	IsOperator bool
	IsViewer   bool
}

func HelpPageQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data := PageData{
			IsAdmin:    session.User.Role == rbac.RoleAdmin,
			IsOperator: session.User.Role == rbac.RoleOperator,
			IsViewer:   session.User.Role == rbac.RoleViewer,
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := HelpPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render help page", http.StatusInternalServerError)
			return
		}
	}
}
