package performance

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func PerformancePage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		from := data.From.Format("2006-01-02")
		to := data.To.Format("2006-01-02")

		body := `<main class="performance">` +
			`<h1>Supplier performance</h1>` +
			html.Flash(data.Status) +
			html.Flash(data.ErrorMessage) +
			`<form method="get" action="/tasker/performance" class="range">` +
			`<label>From<input type="date" name="from" value="` + from + `"></label>` +
			`<label>To<input type="date" name="to" value="` + to + `"></label>` +
			`<button type="submit">Apply</button>` +
			`</form>` +
			`<p class="downloads">` +
			`<a href="/tasker/performance/export.csv?from=` + from + `&amp;to=` + to + `">Download CSV</a> ` +
			`<a href="/tasker/performance/export.xlsx?from=` + from + `&amp;to=` + to + `">Download XLSX</a>` +
			`</p>` +
			html.RenderTable("/tasker/performance", scoreColumns, data.Result, data.State) +
			`</main>`

		_, err := io.WriteString(w, html.RenderLayout("Supplier performance", body))
		return err
	})
}
