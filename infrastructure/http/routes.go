package http

import (
	"net/http"

	adminusers "dockhand/frontend/adminUsers"
	"dockhand/frontend/arrivals"
	"dockhand/frontend/dn"
	exportspage "dockhand/frontend/exports"
	"dockhand/frontend/help"
	"dockhand/frontend/login"
	"dockhand/frontend/performance"
	"dockhand/frontend/scan"
	"dockhand/frontend/settings"
	"dockhand/frontend/suppliers"
	"dockhand/infrastructure/rbac"
	"dockhand/infrastructure/ws"

	"github.com/go-chi/chi/v5"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.RegisterArrivalRoutes(r)
	s.RegisterDNRoutes(r)
	s.RegisterScanRoutes(r)
	s.RegisterSupplierRoutes(r)
	s.RegisterPerformanceRoutes(r)
	s.RegisterExportRoutes(r)

	s.Rbac.Add(rbac.RoleAdmin, "HELP_VIEW", http.MethodGet, "/tasker/help")
	s.Rbac.Add(rbac.RoleOperator, "HELP_VIEW", http.MethodGet, "/tasker/help")
	s.Rbac.Add(rbac.RoleViewer, "HELP_VIEW", http.MethodGet, "/tasker/help")
	r.Get("/help", help.HelpPageQueryHandler())

	s.Rbac.Add(rbac.RoleAdmin, "LIVE_EVENTS", http.MethodGet, "/tasker/ws")
	s.Rbac.Add(rbac.RoleOperator, "LIVE_EVENTS", http.MethodGet, "/tasker/ws")
	s.Rbac.Add(rbac.RoleViewer, "LIVE_EVENTS", http.MethodGet, "/tasker/ws")
	r.Get("/ws", ws.Handler(s.Hub))

	return r
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_LIST_VIEW", http.MethodGet, "/tasker/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_CREATE", http.MethodPost, "/tasker/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.Audit))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_ROLE_EDIT", http.MethodPost, "/tasker/admin/users/role")
	r.Post("/admin/users/role", adminusers.UpdateUserRoleCommandHandler(s.DB, s.Audit, s.UserCache))

	s.Rbac.Add(rbac.RoleAdmin, "SETTINGS_VIEW", http.MethodGet, "/tasker/settings")
	r.Get("/settings", settings.ScoringSettingsPageHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "SETTINGS_EDIT", http.MethodPost, "/tasker/settings")
	r.Post("/settings", settings.UpdateScoringSettingsHandler(s.DB))
	return r
}

func (s *Server) RegisterArrivalRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "ARRIVALS_BOARD_VIEW", http.MethodGet, "/tasker/arrivals")
	s.Rbac.Add(rbac.RoleOperator, "ARRIVALS_BOARD_VIEW", http.MethodGet, "/tasker/arrivals")
	s.Rbac.Add(rbac.RoleViewer, "ARRIVALS_BOARD_VIEW", http.MethodGet, "/tasker/arrivals")
	r.Get("/arrivals", arrivals.ArrivalsBoardPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "ARRIVALS_SCHEDULE_VIEW", http.MethodGet, "/tasker/arrivals/schedule")
	s.Rbac.Add(rbac.RoleOperator, "ARRIVALS_SCHEDULE_VIEW", http.MethodGet, "/tasker/arrivals/schedule")
	s.Rbac.Add(rbac.RoleViewer, "ARRIVALS_SCHEDULE_VIEW", http.MethodGet, "/tasker/arrivals/schedule")
	r.Get("/arrivals/schedule", arrivals.WeeklySchedulePageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "ARRIVALS_CREATE", http.MethodPost, "/tasker/arrivals")
	r.Post("/arrivals", arrivals.CreateArrivalCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleAdmin, "ARRIVALS_CHECKIN", http.MethodPost, "/tasker/arrivals/*/checkin")
	s.Rbac.Add(rbac.RoleOperator, "ARRIVALS_CHECKIN", http.MethodPost, "/tasker/arrivals/*/checkin")
	r.Post("/arrivals/{id}/checkin", arrivals.CheckInArrivalCommandHandler(s.DB, s.Audit, s.Hub))

	s.Rbac.Add(rbac.RoleAdmin, "ARRIVALS_CHECKOUT", http.MethodPost, "/tasker/arrivals/*/checkout")
	s.Rbac.Add(rbac.RoleOperator, "ARRIVALS_CHECKOUT", http.MethodPost, "/tasker/arrivals/*/checkout")
	r.Post("/arrivals/{id}/checkout", arrivals.CheckOutArrivalCommandHandler(s.DB, s.Audit, s.Hub))
}

func (s *Server) RegisterDNRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "DN_LIST_VIEW", http.MethodGet, "/tasker/dn")
	s.Rbac.Add(rbac.RoleOperator, "DN_LIST_VIEW", http.MethodGet, "/tasker/dn")
	s.Rbac.Add(rbac.RoleViewer, "DN_LIST_VIEW", http.MethodGet, "/tasker/dn")
	r.Get("/dn", dn.DNListPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "DN_DOCUMENT_VIEW", http.MethodGet, "/tasker/dn/*/document.pdf")
	s.Rbac.Add(rbac.RoleOperator, "DN_DOCUMENT_VIEW", http.MethodGet, "/tasker/dn/*/document.pdf")
	r.Get("/dn/{id}/document.pdf", dn.DNDocumentPDFHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "DN_IMPORT", http.MethodPost, "/tasker/dn/import")
	r.Post("/dn/import", dn.ImportDNCommandHandler(s.DB, s.Audit))
}

func (s *Server) RegisterScanRoutes(r chi.Router) {
	controllers := scan.NewControllerCache(s.DB, s.Hub, s.ScanDebounce)

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_STATION_VIEW", http.MethodGet, "/tasker/scan")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_STATION_VIEW", http.MethodGet, "/tasker/scan")
	r.Get("/scan", scan.ScanPageQueryHandler(controllers))

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_INPUT", http.MethodPost, "/tasker/scan/input")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_INPUT", http.MethodPost, "/tasker/scan/input")
	r.Post("/scan/input", scan.ScanInputCommandHandler(controllers))

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_DN_SUBMIT", http.MethodPost, "/tasker/scan/dn")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_DN_SUBMIT", http.MethodPost, "/tasker/scan/dn")
	r.Post("/scan/dn", scan.ScanDNCommandHandler(controllers))

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_ITEM_SUBMIT", http.MethodPost, "/tasker/scan/item")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_ITEM_SUBMIT", http.MethodPost, "/tasker/scan/item")
	r.Post("/scan/item", scan.ScanItemCommandHandler(controllers))

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_COMPLETE", http.MethodPost, "/tasker/scan/complete")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_COMPLETE", http.MethodPost, "/tasker/scan/complete")
	r.Post("/scan/complete", scan.ScanCompleteCommandHandler(controllers))

	s.Rbac.Add(rbac.RoleAdmin, "SCAN_INCOMPLETE", http.MethodPost, "/tasker/scan/incomplete")
	s.Rbac.Add(rbac.RoleOperator, "SCAN_INCOMPLETE", http.MethodPost, "/tasker/scan/incomplete")
	r.Post("/scan/incomplete", scan.ScanIncompleteCommandHandler(controllers))
}

func (s *Server) RegisterSupplierRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "SUPPLIERS_LIST_VIEW", http.MethodGet, "/tasker/suppliers")
	s.Rbac.Add(rbac.RoleOperator, "SUPPLIERS_LIST_VIEW", http.MethodGet, "/tasker/suppliers")
	s.Rbac.Add(rbac.RoleViewer, "SUPPLIERS_LIST_VIEW", http.MethodGet, "/tasker/suppliers")
	r.Get("/suppliers", suppliers.SuppliersPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "SUPPLIERS_CREATE", http.MethodPost, "/tasker/suppliers")
	r.Post("/suppliers", suppliers.CreateSupplierCommandHandler(s.DB, s.Audit))

	s.Rbac.Add(rbac.RoleAdmin, "SUPPLIERS_EDIT_VIEW", http.MethodGet, "/tasker/suppliers/*/edit")
	r.Get("/suppliers/{id}/edit", suppliers.SupplierEditPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "SUPPLIERS_EDIT", http.MethodPost, "/tasker/suppliers/*")
	r.Post("/suppliers/{id}", suppliers.UpdateSupplierCommandHandler(s.DB, s.Audit))
}

func (s *Server) RegisterPerformanceRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "PERFORMANCE_VIEW", http.MethodGet, "/tasker/performance")
	s.Rbac.Add(rbac.RoleViewer, "PERFORMANCE_VIEW", http.MethodGet, "/tasker/performance")
	r.Get("/performance", performance.PerformancePageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "PERFORMANCE_EXPORT_CSV", http.MethodGet, "/tasker/performance/export.csv")
	s.Rbac.Add(rbac.RoleViewer, "PERFORMANCE_EXPORT_CSV", http.MethodGet, "/tasker/performance/export.csv")
	r.Get("/performance/export.csv", performance.PerformanceExportCSVHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "PERFORMANCE_EXPORT_XLSX", http.MethodGet, "/tasker/performance/export.xlsx")
	s.Rbac.Add(rbac.RoleViewer, "PERFORMANCE_EXPORT_XLSX", http.MethodGet, "/tasker/performance/export.xlsx")
	r.Get("/performance/export.xlsx", performance.PerformanceExportXLSXHandler(s.DB))
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	s.Rbac.Add(rbac.RoleAdmin, "EXPORTS_VIEW", http.MethodGet, "/tasker/exports")
	s.Rbac.Add(rbac.RoleViewer, "EXPORTS_VIEW", http.MethodGet, "/tasker/exports")
	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_ARRIVALS", http.MethodGet, "/tasker/exports/arrivals")
	s.Rbac.Add(rbac.RoleViewer, "EXPORT_ARRIVALS", http.MethodGet, "/tasker/exports/arrivals")
	r.Get("/exports/arrivals", exportspage.ArrivalsExportHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_DN_ITEMS", http.MethodGet, "/tasker/exports/dn-items")
	s.Rbac.Add(rbac.RoleViewer, "EXPORT_DN_ITEMS", http.MethodGet, "/tasker/exports/dn-items")
	r.Get("/exports/dn-items", exportspage.DNItemsExportHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORT_SCAN_EVENTS", http.MethodGet, "/tasker/exports/scan-events")
	s.Rbac.Add(rbac.RoleViewer, "EXPORT_SCAN_EVENTS", http.MethodGet, "/tasker/exports/scan-events")
	r.Get("/exports/scan-events", exportspage.ScanEventsExportHandler(s.DB))
}
