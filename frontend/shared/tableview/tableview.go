// Package tableview turns (rows, columns, state) into a render-ready page of
// rows plus pagination metadata. It is pure computation: any caller can feed it
// arbitrarily shaped rows (suppliers, arrivals, performance lines) and re-run
// it on every request without side effects.
package tableview

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is an opaque record. Values may be strings, numbers, booleans or nested
// maps reachable through dot-path keys.
type Row map[string]any

// Column describes one table column.
//
// Unsortable inverts the default: columns sort unless explicitly opted out.
// Render, when set, formats the resolved cell value for display; it must be
// pure.
type Column struct {
	Key        string
	Label      string
	Unsortable bool
	Render     func(value any, row Row, index int) string
}

// State is the caller-held view state. PerPage must come from PerPageOptions;
// SetPerPage resets Page to 1 so a shrunken page count never strands the view.
type State struct {
	Page      int
	PerPage   int
	SortKey   string
	SortOrder string
	Search    string
}

// PerPageOptions is the configured page-size option set.
var PerPageOptions = []int{10, 25, 50, 100}

// Meta carries the numbers the pagination controls render.
type Meta struct {
	Total      int
	TotalPages int
	Page       int
	Start      int // 1-based index of first visible row, 0 when empty
	End        int // 1-based index of last visible row
}

// Result is one computed page.
type Result struct {
	Rows []Row
	Meta Meta
}

var collator = collate.New(language.English, collate.Loose)

// Get resolves a dot-path key against a row. Missing segments or non-map
// intermediates yield nil, never a panic; the engine degrades to blank cells
// and non-matches instead of erroring on malformed rows.
func Get(row Row, path string) any {
	if row == nil || path == "" {
		return nil
	}
	var cur any = map[string]any(row)
	for _, seg := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]any:
			cur = m[seg]
		case Row:
			cur = map[string]any(m)[seg]
		default:
			return nil
		}
	}
	return cur
}

// Filter returns rows where at least one column's resolved value contains the
// trimmed search term, case-insensitively. An empty term is the identity and
// preserves the input slice untouched. Nil values never match.
func Filter(rows []Row, cols []Column, term string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, col := range cols {
			v := Get(row, col.Key)
			if v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(stringify(v)), term) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort orders rows by the named column without mutating the input. An empty
// key, an unknown key, or a column marked Unsortable keeps the original order.
//
// Comparison is decided per pair: both values are coerced toward numbers by
// stripping everything but digits, minus and decimal point; if both parse the
// pair compares numerically, otherwise by collated string. A column mixing
// numeric-looking and non-numeric values can therefore order non-transitively
// across the whole set. That matches the behavior users already rely on for
// currency-formatted columns and is kept as-is.
func Sort(rows []Row, cols []Column, key, order string) []Row {
	if key == "" || !sortable(cols, key) {
		return rows
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	desc := order == "desc"
	sort.SliceStable(out, func(i, j int) bool {
		c := comparePair(Get(out[i], key), Get(out[j], key))
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Paginate slices one page out of rows. Pages are 1-based. An out-of-range
// page yields an empty slice rather than a panic; clamping is the caller's job
// via State.SetPage. Zero rows still report one page so controls can render
// "page 1 of 1".
func Paginate(rows []Row, page, perPage int) Result {
	if perPage <= 0 {
		perPage = PerPageOptions[0]
	}
	if page <= 0 {
		page = 1
	}
	total := len(rows)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start >= total {
		return Result{Rows: []Row{}, Meta: Meta{Total: total, TotalPages: totalPages, Page: page}}
	}
	if end > total {
		end = total
	}
	return Result{
		Rows: rows[start:end],
		Meta: Meta{Total: total, TotalPages: totalPages, Page: page, Start: start + 1, End: end},
	}
}

// Compute runs filter, sort, paginate in that fixed order.
func Compute(rows []Row, cols []Column, state State) Result {
	filtered := Filter(rows, cols, state.Search)
	sorted := Sort(filtered, cols, state.SortKey, state.SortOrder)
	return Paginate(sorted, state.Page, state.PerPage)
}

// SetPage is a guarded setter: out-of-range requests are ignored.
func (s *State) SetPage(page, totalPages int) {
	if page < 1 || page > totalPages {
		return
	}
	s.Page = page
}

// SetPerPage accepts only configured page sizes and resets to the first page.
func (s *State) SetPerPage(size int) {
	for _, opt := range PerPageOptions {
		if size == opt {
			s.PerPage = size
			s.Page = 1
			return
		}
	}
}

// ToggleSort cycles asc -> desc on repeated selection of the same key.
func (s *State) ToggleSort(key string) {
	if s.SortKey == key && s.SortOrder == "asc" {
		s.SortOrder = "desc"
		return
	}
	s.SortKey = key
	s.SortOrder = "asc"
}

// View memoizes Compute on the (rows, state) tuple so handlers can recompute
// per request without repeating the sort for an unchanged view. Rows identity
// is tracked by slice header; callers that rebuild the slice get a fresh
// computation, which is the correct conservative behavior.
type View struct {
	Columns []Column

	lastPtr   uintptr
	lastLen   int
	lastState State
	lastOK    bool
	last      Result
}

// Compute returns the memoized result when neither rows nor state changed.
func (v *View) Compute(rows []Row, state State) Result {
	ptr := uintptr(0)
	if len(rows) > 0 {
		ptr = reflect.ValueOf(rows).Pointer()
	}
	if v.lastOK && ptr == v.lastPtr && len(rows) == v.lastLen && state == v.lastState {
		return v.last
	}
	res := Compute(rows, v.Columns, state)
	v.lastPtr, v.lastLen, v.lastState, v.last, v.lastOK = ptr, len(rows), state, res, true
	return res
}

// Cell resolves and formats one cell for display.
func Cell(col Column, row Row, index int) string {
	v := Get(row, col.Key)
	if col.Render != nil {
		return col.Render(v, row, index)
	}
	return stringify(v)
}

func sortable(cols []Column, key string) bool {
	for _, col := range cols {
		if col.Key == key {
			return !col.Unsortable
		}
	}
	return false
}

func comparePair(a, b any) int {
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return collator.CompareString(stringify(a), stringify(b))
}

// toNumber coerces toward numeric: strings are stripped down to digits, minus
// and decimal point before parsing, so "$1,234.00" sorts as 1234.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case bool:
		return 0, false
	case string:
		var sb strings.Builder
		for _, r := range n {
			if (r >= '0' && r <= '9') || r == '-' || r == '.' {
				sb.WriteRune(r)
			}
		}
		f, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
