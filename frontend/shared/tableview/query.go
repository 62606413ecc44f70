package tableview

import (
	"net/url"
	"strconv"
	"strings"
)

// StateFromQuery builds list-page view state from request query parameters
// (q, sort, order, page, per_page). Unknown or malformed values fall back to
// the defaults; per_page goes through the guarded setter so only configured
// sizes are accepted.
func StateFromQuery(q url.Values) State {
	state := State{Page: 1, PerPage: PerPageOptions[0], SortOrder: "asc"}
	state.Search = strings.TrimSpace(q.Get("q"))
	state.SortKey = strings.TrimSpace(q.Get("sort"))
	if q.Get("order") == "desc" {
		state.SortOrder = "desc"
	}
	if pp, err := strconv.Atoi(q.Get("per_page")); err == nil {
		state.SetPerPage(pp)
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		state.Page = p
	}
	return state
}

// ComputeClamped recomputes on the last page when the requested page ran past
// the end of the filtered set, so a narrowed search never shows an empty page.
func ComputeClamped(rows []Row, cols []Column, state State) (Result, State) {
	res := Compute(rows, cols, state)
	if state.Page > res.Meta.TotalPages {
		state.Page = res.Meta.TotalPages
		res = Compute(rows, cols, state)
	}
	return res, state
}
