package login

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

// GetLoginScreen renders the standalone login form.
func GetLoginScreen(errorMessage string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body := `<main class="login">` +
			`<h1>Dockhand</h1>` +
			html.Flash(errorMessage) +
			`<form method="post" action="/login">` +
			`<label>Username<input type="text" name="username" autofocus autocomplete="username"></label>` +
			`<label>Password<input type="password" name="password" autocomplete="current-password"></label>` +
			`<button type="submit">Sign in</button>` +
			`</form></main>`
		_, err := io.WriteString(w, html.RenderLayout("Sign in", body))
		return err
	})
}
