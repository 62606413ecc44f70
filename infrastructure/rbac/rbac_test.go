package rbac

import "testing"

func TestMatchPathWildcardSegments(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		ok      bool
	}{
		{pattern: "/tasker/arrivals/*/checkin", path: "/tasker/arrivals/1/checkin", ok: true},
		{pattern: "/tasker/dns/*/document", path: "/tasker/dns/10/document", ok: true},
		{pattern: "/tasker/exports/*", path: "/tasker/exports/performance.csv", ok: true},
		{pattern: "/tasker/admin/users", path: "/tasker/admin/users", ok: true},
		{pattern: "/tasker/admin/users", path: "/tasker/admin/users/1", ok: false},
		{pattern: "/tasker/arrivals/*/checkin", path: "/tasker/arrivals/1/checkout", ok: false},
	}

	for _, tc := range cases {
		if got := matchPath(tc.pattern, tc.path); got != tc.ok {
			t.Fatalf("pattern=%s path=%s expected=%v got=%v", tc.pattern, tc.path, tc.ok, got)
		}
	}
}
