package arrivals

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"dockhand/frontend/shared/html"
	"dockhand/frontend/shared/tableview"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func ArrivalsBoardPage(data BoardPageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="arrivals">`)
		b.WriteString(`<h1>Arrivals</h1>`)
		b.WriteString(html.Flash(data.Status))
		b.WriteString(html.Flash(data.ErrorMessage))
		b.WriteString(`<p><a href="/tasker/arrivals/schedule">Weekly schedule</a></p>`)
		b.WriteString(html.RenderTable("/tasker/arrivals", boardColumns, data.Result, data.State))

		b.WriteString(`<section class="checkin"><h2>Check in</h2>`)
		for _, row := range data.Result.Rows {
			status, _ := row["status"].(string)
			if status != "scheduled" {
				continue
			}
			id, _ := row["id"].(int64)
			bp := fmt.Sprintf("%v", tableview.Get(row, "supplier.bp_code"))
			b.WriteString(fmt.Sprintf(`<form id="checkin-%d" method="post" action="/tasker/arrivals/%d/checkin">`, id, id))
			b.WriteString(`<span>` + html.EscapeString(bp) + `</span>`)
			b.WriteString(`<select name="dock_id">`)
			for _, d := range data.Docks {
				if d.Status != "open" {
					continue
				}
				b.WriteString(fmt.Sprintf(`<option value="%d">%s</option>`, d.ID, html.EscapeString(d.Name)))
			}
			b.WriteString(`</select><button type="submit">Check in</button></form>`)
		}
		b.WriteString(`</section>`)

		if data.IsAdmin {
			b.WriteString(renderScheduleForm(data.Suppliers))
		}
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Arrivals", b.String()))
		return err
	})
}

func WeeklySchedulePage(data SchedulePageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="schedule">`)
		b.WriteString(`<h1>Weekly schedule</h1>`)
		b.WriteString(html.Flash(data.Status))
		b.WriteString(html.Flash(data.ErrorMessage))
		b.WriteString(`<p><a href="/tasker/arrivals">Back to board</a></p>`)

		for day := 1; day <= 7; day++ {
			d := day % 7 // render Monday first
			b.WriteString(`<section><h2>` + weekdayNames[d] + `</h2>`)
			if len(data.Days[d]) == 0 {
				b.WriteString(`<p class="empty">No regular arrivals</p></section>`)
				continue
			}
			b.WriteString(`<ul>`)
			for _, a := range data.Days[d] {
				b.WriteString(`<li>` + html.EscapeString(a.PlanTime) + ` ` +
					html.EscapeString(a.BPCode) + ` ` + html.EscapeString(a.SupplierName) +
					` (` + FormatMinutes(a.UnloadMinutes) + `)</li>`)
			}
			b.WriteString(`</ul></section>`)
		}
		b.WriteString(`</main>`)

		_, err := io.WriteString(w, html.RenderLayout("Weekly schedule", b.String()))
		return err
	})
}

func renderScheduleForm(supplierOptions []SupplierOption) string {
	var b strings.Builder
	b.WriteString(`<section class="create"><h2>Schedule arrival</h2>`)
	b.WriteString(`<form method="post" action="/tasker/arrivals">`)
	b.WriteString(`<label>Supplier<select name="supplier_id">`)
	for _, s := range supplierOptions {
		b.WriteString(fmt.Sprintf(`<option value="%d">%s</option>`, s.ID, html.EscapeString(s.Label)))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Kind<select name="kind"><option value="regular">Regular (weekly)</option><option value="additional">Additional (one-off)</option></select></label>`)
	b.WriteString(`<label>Weekday<select name="weekday">`)
	for d, name := range weekdayNames {
		b.WriteString(fmt.Sprintf(`<option value="%d">%s</option>`, d, name))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Date<input type="date" name="plan_date"></label>`)
	b.WriteString(`<label>Time<input type="time" name="plan_time" required></label>`)
	b.WriteString(`<label>Unload duration<input type="text" name="unload_duration" placeholder="1h 30m" required></label>`)
	b.WriteString(`<button type="submit">Schedule</button></form></section>`)
	return b.String()
}
