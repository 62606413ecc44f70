package tableview

import (
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{"name": "Acme Logistics", "score": "92.5", "supplier": map[string]any{"bp": "BP001"}},
		{"name": "Borealis", "score": "78.0", "supplier": map[string]any{"bp": "BP002"}},
		{"name": "Cartage & Co", "score": "85.25", "supplier": map[string]any{"bp": "BP003"}},
	}
}

func sampleCols() []Column {
	return []Column{
		{Key: "name", Label: "Name"},
		{Key: "score", Label: "Score"},
		{Key: "supplier.bp", Label: "BP Code"},
	}
}

func TestGet_NestedPath(t *testing.T) {
	row := Row{"supplier": map[string]any{"bp": "BP009"}}
	if v := Get(row, "supplier.bp"); v != "BP009" {
		t.Fatalf("expected BP009, got %v", v)
	}
	if v := Get(row, "supplier.missing.deeper"); v != nil {
		t.Fatalf("expected nil for missing path, got %v", v)
	}
	if v := Get(row, "supplier.bp.deeper"); v != nil {
		t.Fatalf("expected nil when traversing through a scalar, got %v", v)
	}
}

func TestFilter_EmptyTermIsIdentity(t *testing.T) {
	rows := sampleRows()
	got := Filter(rows, sampleCols(), "   ")
	if len(got) != len(rows) {
		t.Fatalf("expected identity, got %d rows", len(got))
	}
	for i := range rows {
		if got[i]["name"] != rows[i]["name"] {
			t.Fatalf("row order changed at %d", i)
		}
	}
}

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	got := Filter(sampleRows(), sampleCols(), "aCmE")
	if len(got) != 1 || got[0]["name"] != "Acme Logistics" {
		t.Fatalf("expected single Acme row, got %v", got)
	}
}

func TestFilter_MatchesNestedColumn(t *testing.T) {
	got := Filter(sampleRows(), sampleCols(), "bp002")
	if len(got) != 1 || got[0]["name"] != "Borealis" {
		t.Fatalf("expected Borealis via nested bp code, got %v", got)
	}
}

func TestFilter_NilValuesNeverMatch(t *testing.T) {
	rows := []Row{{"name": nil}, {"name": "<nil>"}}
	got := Filter(rows, []Column{{Key: "name"}}, "nil")
	if len(got) != 1 {
		t.Fatalf("expected only the literal string row, got %d", len(got))
	}
}

func TestSort_CurrencyStringsSortNumerically(t *testing.T) {
	rows := []Row{
		{"amount": "$1,234.00"},
		{"amount": "$99.50"},
		{"amount": "$215.00"},
	}
	got := Sort(rows, []Column{{Key: "amount"}}, "amount", "asc")
	want := []string{"$99.50", "$215.00", "$1,234.00"}
	for i, w := range want {
		if got[i]["amount"] != w {
			t.Fatalf("position %d: expected %s, got %v", i, w, got[i]["amount"])
		}
	}
}

func TestSort_DescReversesOrder(t *testing.T) {
	rows := []Row{{"n": int64(1)}, {"n": int64(3)}, {"n": int64(2)}}
	got := Sort(rows, []Column{{Key: "n"}}, "n", "desc")
	if got[0]["n"] != int64(3) || got[2]["n"] != int64(1) {
		t.Fatalf("expected 3..1, got %v", got)
	}
}

func TestSort_StringsUseCollation(t *testing.T) {
	rows := []Row{{"name": "beta"}, {"name": "Alpha"}, {"name": "gamma"}}
	got := Sort(rows, []Column{{Key: "name"}}, "name", "asc")
	if got[0]["name"] != "Alpha" || got[1]["name"] != "beta" {
		t.Fatalf("expected case-insensitive alpha order, got %v", got)
	}
}

func TestSort_UnsortableColumnKeepsOrder(t *testing.T) {
	rows := []Row{{"n": 2}, {"n": 1}}
	got := Sort(rows, []Column{{Key: "n", Unsortable: true}}, "n", "asc")
	if got[0]["n"] != 2 {
		t.Fatalf("expected original order for unsortable column")
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	rows := []Row{{"n": 2}, {"n": 1}}
	_ = Sort(rows, []Column{{Key: "n"}}, "n", "asc")
	if rows[0]["n"] != 2 {
		t.Fatalf("input slice was mutated")
	}
}

func TestSort_NilSortsAsEmptyString(t *testing.T) {
	rows := []Row{{"name": "zeta"}, {"name": nil}}
	got := Sort(rows, []Column{{Key: "name"}}, "name", "asc")
	if got[0]["name"] != nil {
		t.Fatalf("expected nil (empty string) first, got %v", got[0]["name"])
	}
}

func TestPaginate_SliceBounds(t *testing.T) {
	rows := make([]Row, 7)
	for i := range rows {
		rows[i] = Row{"i": i}
	}
	res := Paginate(rows, 2, 3)
	if len(res.Rows) != 3 || res.Rows[0]["i"] != 3 {
		t.Fatalf("expected rows 3..5 on page 2, got %v", res.Rows)
	}
	if res.Meta.TotalPages != 3 || res.Meta.Start != 4 || res.Meta.End != 6 {
		t.Fatalf("unexpected meta: %+v", res.Meta)
	}

	last := Paginate(rows, 3, 3)
	if len(last.Rows) != 1 || last.Rows[0]["i"] != 6 {
		t.Fatalf("expected single row on last page, got %v", last.Rows)
	}
}

func TestPaginate_ConcatenatingPagesReconstructsInput(t *testing.T) {
	rows := make([]Row, 11)
	for i := range rows {
		rows[i] = Row{"i": i}
	}
	res := Paginate(rows, 1, 4)
	all := make([]Row, 0, len(rows))
	for page := 1; page <= res.Meta.TotalPages; page++ {
		all = append(all, Paginate(rows, page, 4).Rows...)
	}
	if len(all) != len(rows) {
		t.Fatalf("expected %d rows across pages, got %d", len(rows), len(all))
	}
	for i := range all {
		if all[i]["i"] != i {
			t.Fatalf("page concatenation broke order at %d", i)
		}
	}
}

func TestPaginate_EmptyReportsSinglePage(t *testing.T) {
	res := Paginate(nil, 1, 10)
	if res.Meta.TotalPages != 1 || res.Meta.Total != 0 || res.Meta.Start != 0 {
		t.Fatalf("unexpected empty meta: %+v", res.Meta)
	}
}

func TestPaginate_OutOfRangePageDoesNotPanic(t *testing.T) {
	rows := []Row{{"i": 0}}
	res := Paginate(rows, 99, 10)
	if len(res.Rows) != 0 {
		t.Fatalf("expected empty page, got %v", res.Rows)
	}
}

func TestState_SetPageIgnoresOutOfRange(t *testing.T) {
	s := State{Page: 2, PerPage: 10}
	s.SetPage(99, 3)
	if s.Page != 2 {
		t.Fatalf("out-of-range page was applied")
	}
	s.SetPage(3, 3)
	if s.Page != 3 {
		t.Fatalf("valid page was rejected")
	}
}

func TestState_SetPerPageResetsPage(t *testing.T) {
	s := State{Page: 4, PerPage: 10}
	s.SetPerPage(25)
	if s.PerPage != 25 || s.Page != 1 {
		t.Fatalf("expected per-page 25 on page 1, got %+v", s)
	}
	s.SetPerPage(7)
	if s.PerPage != 25 {
		t.Fatalf("unconfigured page size was accepted")
	}
}

func TestState_ToggleSortCycles(t *testing.T) {
	var s State
	s.ToggleSort("name")
	if s.SortKey != "name" || s.SortOrder != "asc" {
		t.Fatalf("first toggle should sort asc, got %+v", s)
	}
	s.ToggleSort("name")
	if s.SortOrder != "desc" {
		t.Fatalf("second toggle should sort desc, got %+v", s)
	}
	s.ToggleSort("score")
	if s.SortKey != "score" || s.SortOrder != "asc" {
		t.Fatalf("new key should reset to asc, got %+v", s)
	}
}

func TestCompute_FilterSortPaginateOrder(t *testing.T) {
	rows := []Row{
		{"name": "dock alpha", "n": "3"},
		{"name": "dock beta", "n": "1"},
		{"name": "yard gamma", "n": "2"},
		{"name": "dock delta", "n": "2"},
	}
	cols := []Column{{Key: "name"}, {Key: "n"}}
	res := Compute(rows, cols, State{Page: 1, PerPage: 2, SortKey: "n", SortOrder: "asc", Search: "dock"})
	if res.Meta.Total != 3 || res.Meta.TotalPages != 2 {
		t.Fatalf("unexpected meta after filter: %+v", res.Meta)
	}
	if res.Rows[0]["name"] != "dock beta" {
		t.Fatalf("expected lowest n first, got %v", res.Rows[0])
	}
}

func TestView_MemoizesOnUnchangedInput(t *testing.T) {
	rows := sampleRows()
	v := &View{Columns: sampleCols()}
	state := State{Page: 1, PerPage: 10, SortKey: "name", SortOrder: "asc"}
	first := v.Compute(rows, state)
	second := v.Compute(rows, state)
	if len(first.Rows) == 0 || len(second.Rows) == 0 {
		t.Fatalf("expected rows in both computations")
	}
	// Memoized result is the same backing slice.
	if &first.Rows[0] != &second.Rows[0] {
		t.Fatalf("expected memoized result for unchanged input")
	}
	state.Search = "acme"
	third := v.Compute(rows, state)
	if third.Meta.Total != 1 {
		t.Fatalf("state change should recompute, got %+v", third.Meta)
	}
}

func TestCell_RenderOverridesValue(t *testing.T) {
	col := Column{Key: "n", Render: func(v any, _ Row, _ int) string { return "x" }}
	if got := Cell(col, Row{"n": 5}, 0); got != "x" {
		t.Fatalf("expected render override, got %s", got)
	}
	if got := Cell(Column{Key: "missing"}, Row{}, 0); got != "" {
		t.Fatalf("expected blank cell for missing key, got %q", got)
	}
}
