package exports

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func ExportsPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		qs := "?from=" + data.From + "&amp;to=" + data.To

		body := `<main class="exports">` +
			`<h1>Exports</h1>` +
			`<form method="get" action="/tasker/exports" class="range">` +
			`<label>From<input type="date" name="from" value="` + data.From + `"></label>` +
			`<label>To<input type="date" name="to" value="` + data.To + `"></label>` +
			`<button type="submit">Apply</button>` +
			`</form>` +
			`<section><h2>Arrivals log</h2><p>` +
			`<a href="/tasker/exports/arrivals` + qs + `">CSV</a> ` +
			`<a href="/tasker/exports/arrivals` + qs + `&amp;format=xlsx">XLSX</a>` +
			`</p></section>` +
			`<section><h2>Delivery note lines</h2><p>` +
			`<a href="/tasker/exports/dn-items">CSV</a> ` +
			`<a href="/tasker/exports/dn-items?format=xlsx">XLSX</a>` +
			`</p></section>` +
			`<section><h2>Scan events</h2><p>` +
			`<a href="/tasker/exports/scan-events` + qs + `">CSV</a> ` +
			`<a href="/tasker/exports/scan-events` + qs + `&amp;format=xlsx">XLSX</a>` +
			`</p></section>` +
			`</main>`

		_, err := io.WriteString(w, html.RenderLayout("Exports", body))
		return err
	})
}
