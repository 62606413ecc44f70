package suppliers

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func SuppliersListPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body := `<main class="suppliers">` +
			`<h1>Suppliers</h1>` +
			html.Flash(data.Status) +
			html.Flash(data.ErrorMessage) +
			html.RenderTable("/tasker/suppliers", supplierColumns, data.Result, data.State)

		if data.IsAdmin {
			body += `<section class="create"><h2>Add supplier</h2>` +
				`<form method="post" action="/tasker/suppliers">` +
				`<label>BP Code<input type="text" name="bp_code" required></label>` +
				`<label>Name<input type="text" name="name" required></label>` +
				`<label>Email<input type="email" name="contact_email"></label>` +
				`<label>Phone<input type="text" name="phone"></label>` +
				`<button type="submit">Create</button>` +
				`</form></section>`
		}
		body += `</main>`

		_, err := io.WriteString(w, html.RenderLayout("Suppliers", body))
		return err
	})
}

func SupplierEditPage(s SupplierView, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		checked := ""
		if s.Active != 0 {
			checked = " checked"
		}
		body := `<main class="suppliers">` +
			`<h1>Edit supplier ` + html.EscapeString(s.BPCode) + `</h1>` +
			html.Flash(errorMessage) +
			fmt.Sprintf(`<form method="post" action="/tasker/suppliers/%d">`, s.ID) +
			`<label>Name<input type="text" name="name" value="` + html.EscapeString(s.Name) + `" required></label>` +
			`<label>Email<input type="email" name="contact_email" value="` + html.EscapeString(s.ContactEmail) + `"></label>` +
			`<label>Phone<input type="text" name="phone" value="` + html.EscapeString(s.Phone) + `"></label>` +
			`<label>Active<input type="checkbox" name="active"` + checked + `></label>` +
			`<button type="submit">Save</button> <a href="/tasker/suppliers">Cancel</a>` +
			`</form></main>`
		_, err := io.WriteString(w, html.RenderLayout("Edit supplier", body))
		return err
	})
}
