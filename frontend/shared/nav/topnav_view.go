package nav

import (
	"strings"

	"dockhand/frontend/shared/html"
	"dockhand/infrastructure/rbac"
)

type navLink struct {
	Href  string
	Label string
	Roles []string
}

var navLinks = []navLink{
	{Href: "/tasker/arrivals", Label: "Arrivals", Roles: []string{rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleViewer}},
	{Href: "/tasker/scan", Label: "Scan", Roles: []string{rbac.RoleAdmin, rbac.RoleOperator}},
	{Href: "/tasker/dn", Label: "Delivery Notes", Roles: []string{rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleViewer}},
	{Href: "/tasker/suppliers", Label: "Suppliers", Roles: []string{rbac.RoleAdmin, rbac.RoleViewer}},
	{Href: "/tasker/performance", Label: "Performance", Roles: []string{rbac.RoleAdmin, rbac.RoleViewer}},
	{Href: "/tasker/exports", Label: "Exports", Roles: []string{rbac.RoleAdmin, rbac.RoleViewer}},
	{Href: "/tasker/admin/users", Label: "Users", Roles: []string{rbac.RoleAdmin}},
	{Href: "/tasker/settings", Label: "Settings", Roles: []string{rbac.RoleAdmin}},
	{Href: "/tasker/help", Label: "Help", Roles: []string{rbac.RoleAdmin, rbac.RoleOperator, rbac.RoleViewer}},
}

// RenderTopNav builds the shared navigation bar, filtered to the
// links the session's role may reach.
func RenderTopNav(data TopNavData) string {
	var b strings.Builder
	b.WriteString(`<nav class="topnav"><span class="brand">Dockhand</span><ul>`)
	for _, l := range navLinks {
		if !roleAllowed(data.Role, l.Roles) {
			continue
		}
		b.WriteString(`<li><a href="` + l.Href + `">` + l.Label + `</a></li>`)
	}
	b.WriteString(`</ul><span class="who">` + html.EscapeString(data.Username) +
		` (` + html.EscapeString(data.Role) + `)</span>` +
		`<form method="post" action="/logout"><button type="submit">Log out</button></form></nav>`)
	return b.String()
}

func roleAllowed(role string, allowed []string) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}
