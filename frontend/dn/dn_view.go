package dn

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func DNListPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="dn">`)
		b.WriteString(`<h1>Delivery Notes</h1>`)
		b.WriteString(html.Flash(data.Status))
		b.WriteString(html.Flash(data.ErrorMessage))
		b.WriteString(html.RenderTable("/tasker/dn", dnColumns, data.Result, data.State))

		if data.IsAdmin {
			b.WriteString(`<section class="import"><h2>Import declared quantities</h2>` +
				`<p>CSV header: <code>dn_number,bp_code,part_no,total_qty,qty_per_box</code></p>` +
				`<form method="post" action="/tasker/dn/import" enctype="multipart/form-data">` +
				`<input type="file" name="csv_file" accept=".csv" required>` +
				`<button type="submit">Import</button>` +
				`</form></section>`)
		}
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Delivery Notes", b.String()))
		return err
	})
}
