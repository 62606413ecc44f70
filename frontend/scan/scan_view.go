package scan

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
	"dockhand/scanflow"
)

func ScanPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="scan" data-stage="` + data.View.Stage.String() + `">`)
		b.WriteString(`<h1>Scan station</h1>`)

		for _, n := range data.Notices {
			b.WriteString(`<div class="notice notice-` + n.Level + `">` + html.EscapeString(n.Message) + `</div>`)
		}
		if data.View.Busy {
			b.WriteString(`<div class="notice notice-info">A scan is in progress&hellip;</div>`)
		}

		switch data.View.Stage {
		case scanflow.StageNoSession:
			b.WriteString(renderDNStage(data.View))
		case scanflow.StageScanning:
			b.WriteString(renderItemStage(data.View))
		case scanflow.StageReadyToComplete:
			b.WriteString(renderCompleteStage(data.View))
		}

		b.WriteString(watchScript())
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Scan station", b.String()))
		return err
	})
}

func renderDNStage(v scanflow.View) string {
	return `<section class="stage-dn"><h2>Scan delivery note</h2>` +
		`<form method="post" action="/tasker/scan/dn">` +
		`<input type="text" name="value" id="scan-input" value="` + html.EscapeString(v.Input) + `" autofocus autocomplete="off" placeholder="DN number">` +
		`<button type="submit">Open session</button>` +
		`</form></section>`
}

func renderItemStage(v scanflow.View) string {
	var b strings.Builder
	b.WriteString(`<section class="stage-item">`)
	b.WriteString(`<h2>` + html.EscapeString(v.Session.DNNumber) + `</h2>`)
	b.WriteString(fmt.Sprintf(`<p class="progress">%d of %d scanned</p>`, v.TotalScanned, v.TotalRequired))

	b.WriteString(`<table><thead><tr><th>Part</th><th>Declared</th><th>Scanned</th><th>Remaining</th></tr></thead><tbody>`)
	for _, item := range v.Items {
		b.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>`,
			html.EscapeString(item.PartNo), item.TotalQty, item.ScannedQty, item.Remaining()))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<form method="post" action="/tasker/scan/item">` +
		`<input type="text" name="value" id="scan-input" value="` + html.EscapeString(v.Input) + `" autofocus autocomplete="off" placeholder="Item label">` +
		`<button type="submit">Scan item</button></form>`)
	b.WriteString(incompleteForm())
	b.WriteString(`</section>`)
	return b.String()
}

func renderCompleteStage(v scanflow.View) string {
	return `<section class="stage-complete">` +
		`<h2>` + html.EscapeString(v.Session.DNNumber) + ` fully scanned</h2>` +
		`<p>Scan the DN number again to confirm completion.</p>` +
		`<form method="post" action="/tasker/scan/complete">` +
		`<input type="text" name="value" id="scan-input" value="` + html.EscapeString(v.Input) + `" autofocus autocomplete="off" placeholder="Confirm DN number">` +
		`<button type="submit">Complete</button></form>` +
		incompleteForm() +
		`</section>`
}

func incompleteForm() string {
	return `<form method="post" action="/tasker/scan/incomplete" onsubmit="return confirm('Mark this arrival incomplete?')">` +
		`<input type="hidden" name="confirm" value="yes">` +
		`<button type="submit" class="danger">Mark incomplete</button></form>`
}

// watchScript posts keystrokes to the input watcher so scanner-shaped values
// auto-submit server-side, then reloads to show the result.
func watchScript() string {
	return `<script>
(function() {
	var input = document.getElementById('scan-input');
	if (!input) return;
	function csrf() {
		var parts = document.cookie ? document.cookie.split(';') : [];
		for (var i = 0; i < parts.length; i++) {
			var c = parts[i].trim();
			if (c.indexOf('X-CSRF-Token=') === 0) return decodeURIComponent(c.substring(13));
		}
		return '';
	}
	var timer = null;
	input.addEventListener('input', function() {
		fetch('/tasker/scan/input', {
			method: 'POST',
			headers: {'X-CSRF-Token': csrf()},
			body: new URLSearchParams({value: input.value})
		});
		if (timer) clearTimeout(timer);
		timer = setTimeout(function() { window.location.reload(); }, 700);
	});
})();
</script>`
}
