package settings

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
)

func ScoringSettingsPage(s ScoringSettings, status, errorMessage string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		body := `<main class="settings">` +
			`<h1>Scoring settings</h1>` +
			html.Flash(status) +
			html.Flash(errorMessage) +
			`<form method="post" action="/tasker/settings">` +
			`<fieldset><legend>Score weights (must sum to 1)</legend>` +
			weightInput("weight_on_time", "On-time weight", s.WeightOnTime.String()) +
			weightInput("weight_quantity", "Quantity weight", s.WeightQuantity.String()) +
			weightInput("weight_completion", "Completion weight", s.WeightCompletion.String()) +
			`</fieldset>` +
			`<label>Check-in grace window (minutes)` +
			`<input type="number" name="grace_minutes" min="0" max="240" value="` + strconv.FormatInt(s.GraceMinutes, 10) + `" required>` +
			`</label>` +
			`<button type="submit">Save</button>` +
			`</form></main>`

		_, err := io.WriteString(w, html.RenderLayout("Settings", body))
		return err
	})
}

func weightInput(name, label, value string) string {
	return `<label>` + label +
		`<input type="text" name="` + name + `" value="` + html.EscapeString(value) + `" required>` +
		`</label>`
}
