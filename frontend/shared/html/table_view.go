package html

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"dockhand/frontend/shared/tableview"
)

// RenderTable renders one computed table page: search box, sortable headers,
// body rows and pagination controls. basePath is the list page URL; view state
// round-trips through its query string.
func RenderTable(basePath string, cols []tableview.Column, res tableview.Result, state tableview.State) string {
	var b strings.Builder

	b.WriteString(`<form method="get" action="` + basePath + `" class="table-search">`)
	b.WriteString(`<input type="search" name="q" value="` + EscapeString(state.Search) + `" placeholder="Search">`)
	b.WriteString(`<select name="per_page" onchange="this.form.submit()">`)
	for _, opt := range tableview.PerPageOptions {
		sel := ""
		if opt == state.PerPage {
			sel = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%d"%s>%d</option>`, opt, sel, opt))
	}
	b.WriteString(`</select><button type="submit">Apply</button></form>`)

	b.WriteString(`<table><thead><tr>`)
	for _, col := range cols {
		if col.Unsortable {
			b.WriteString(`<th>` + EscapeString(col.Label) + `</th>`)
			continue
		}
		order := "asc"
		marker := ""
		if state.SortKey == col.Key {
			if state.SortOrder == "asc" {
				order = "desc"
				marker = " ▲"
			} else {
				marker = " ▼"
			}
		}
		b.WriteString(`<th><a href="` + stateURL(basePath, state, map[string]string{
			"sort": col.Key, "order": order, "page": "1",
		}) + `">` + EscapeString(col.Label) + marker + `</a></th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	for i, row := range res.Rows {
		b.WriteString(`<tr>`)
		for _, col := range cols {
			b.WriteString(`<td>` + tableview.Cell(col, row, i) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	if len(res.Rows) == 0 {
		b.WriteString(fmt.Sprintf(`<tr><td colspan="%d" class="empty">No rows</td></tr>`, len(cols)))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<nav class="pagination">`)
	if res.Meta.Page > 1 {
		b.WriteString(`<a href="` + stateURL(basePath, state, map[string]string{"page": strconv.Itoa(res.Meta.Page - 1)}) + `">&laquo; Prev</a> `)
	}
	b.WriteString(fmt.Sprintf(`<span>Page %d of %d (%d rows)</span>`, res.Meta.Page, res.Meta.TotalPages, res.Meta.Total))
	if res.Meta.Page < res.Meta.TotalPages {
		b.WriteString(` <a href="` + stateURL(basePath, state, map[string]string{"page": strconv.Itoa(res.Meta.Page + 1)}) + `">Next &raquo;</a>`)
	}
	b.WriteString(`</nav>`)

	return b.String()
}

func stateURL(basePath string, state tableview.State, overrides map[string]string) string {
	q := url.Values{}
	if state.Search != "" {
		q.Set("q", state.Search)
	}
	if state.SortKey != "" {
		q.Set("sort", state.SortKey)
		q.Set("order", state.SortOrder)
	}
	q.Set("page", strconv.Itoa(state.Page))
	q.Set("per_page", strconv.Itoa(state.PerPage))
	for k, v := range overrides {
		q.Set(k, v)
	}
	return basePath + "?" + q.Encode()
}
