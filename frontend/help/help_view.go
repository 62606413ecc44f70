package help

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func HelpPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body := `<main class="help"><h1>Help</h1>`

		body += `<section><h2>Arrivals board</h2>` +
			`<p>The board shows today's planned arrivals. Check a lorry in when it reaches a free dock; ` +
			`check it out once unloading finishes. A check-out marks the arrival completed, or incomplete ` +
			`when items are still outstanding.</p></section>`

		if data.IsOperator || data.IsAdmin {
			body += `<section><h2>Scan station</h2>` +
				`<p>Scan the delivery note barcode first to open a session. Then scan each box label; ` +
				`the station advances automatically after a short pause in input. When every line is full, ` +
				`scan the delivery note again to confirm completion. A rejected scan keeps the barcode in ` +
				`the input so you can correct it.</p>` +
				`<p>If a delivery cannot be finished, use the incomplete button. The session stays open ` +
				`and can be resumed by scanning the same delivery note.</p></section>`
		}

		if data.IsAdmin {
			body += `<section><h2>Administration</h2>` +
				`<p>Admins manage suppliers, import delivery notes from CSV, create users and tune the ` +
				`performance score weights under Settings. Every change is recorded in the audit log.</p></section>`
		}

		body += `<section><h2>Performance and exports</h2>` +
			`<p>Supplier performance combines on-time rate, quantity accuracy and completion rate into a ` +
			`weighted score. Lists and logs can be downloaded as CSV or XLSX from the Exports page.</p></section>`

		body += `</main>`

		_, err := io.WriteString(w, html.RenderLayout("Help", body))
		return err
	})
}
