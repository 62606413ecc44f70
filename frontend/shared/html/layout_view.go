package html

import (
	"context"
	"fmt"
	stdhtml "html"
	"io"

	"github.com/a-h/templ"
)

// EscapeString escapes user data for interpolation into view markup.
func EscapeString(s string) string {
	return stdhtml.EscapeString(s)
}

func RenderLayout(title, body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s%s</body></html>", title, body, CSRFFormScript())
}

// Page wraps a rendered body in the shared layout as a templ component.
func Page(title, body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderLayout(title, body))
		return err
	})
}

// Flash renders the PRG status/error banner used across pages.
func Flash(message string) string {
	if message == "" {
		return ""
	}
	return `<div class="flash">` + EscapeString(message) + `</div>`
}
