package adminusers

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
	"dockhand/infrastructure/rbac"
)

var roleOptions = []string{rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleViewer}

func UsersListPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body := `<main class="admin-users">` +
			`<h1>Users</h1>` +
			html.Flash(data.Status) +
			html.Flash(data.ErrorMessage) +
			html.RenderTable("/tasker/admin/users", userColumns, data.Result, data.State)

		body += `<section class="create"><h2>Add user</h2>` +
			`<form method="post" action="/tasker/admin/users">` +
			`<label>Username<input type="text" name="username" required></label>` +
			`<label>Password<input type="password" name="password" required></label>` +
			`<label>Role` + roleSelect(rbac.RoleOperator) + `</label>` +
			`<button type="submit">Create</button>` +
			`</form></section></main>`

		_, err := io.WriteString(w, html.RenderLayout("Users", body))
		return err
	})
}

func roleSelect(selected string) string {
	out := `<select name="role">`
	for _, role := range roleOptions {
		sel := ""
		if role == selected {
			sel = ` selected`
		}
		out += `<option value="` + role + `"` + sel + `>` + role + `</option>`
	}
	return out + `</select>`
}
