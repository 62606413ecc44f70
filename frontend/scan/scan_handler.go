package scan

import (
	"net/http"

	sessioncontext "dockhand/frontend/shared/context"
	"dockhand/scanflow"
)

// ScanPageQueryHandler renders the scan terminal for the operator's current
// workflow stage.
func ScanPageQueryHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		entry := controllers.Get(session.UserID)
		_ = entry.Controller.Refresh(r.Context())

		data := PageData{
			View:    entry.Controller.Snapshot(),
			Notices: entry.Notices.Drain(),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ScanPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render scan page", http.StatusInternalServerError)
			return
		}
	}
}

// ScanInputCommandHandler feeds the watched input value to the controller so
// scanner-shaped values auto-submit after the settle window.
func ScanInputCommandHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}

		entry := controllers.Get(session.UserID)
		stage := entry.Controller.Snapshot().Stage
		entry.Controller.SetInput(stage, r.FormValue("value"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ScanDNCommandHandler submits the DN number that opens a session.
func ScanDNCommandHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
			return
		}

		entry := controllers.Get(session.UserID)
		entry.Controller.SetInput(scanflow.StageNoSession, r.FormValue("value"))
		_ = entry.Controller.SubmitDN(r.Context())
		http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
	}
}

// ScanItemCommandHandler submits one item label.
func ScanItemCommandHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
			return
		}

		entry := controllers.Get(session.UserID)
		entry.Controller.SetInput(scanflow.StageScanning, r.FormValue("value"))
		_ = entry.Controller.SubmitItem(r.Context())
		http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
	}
}

// ScanCompleteCommandHandler submits the completion confirmation.
func ScanCompleteCommandHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
			return
		}

		entry := controllers.Get(session.UserID)
		entry.Controller.SetInput(scanflow.StageReadyToComplete, r.FormValue("value"))
		_ = entry.Controller.SubmitComplete(r.Context())
		http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
	}
}

// ScanIncompleteCommandHandler abandons the session after an explicit confirm.
func ScanIncompleteCommandHandler(controllers *ControllerCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil || r.FormValue("confirm") != "yes" {
			http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
			return
		}

		entry := controllers.Get(session.UserID)
		_ = entry.Controller.MarkIncomplete(r.Context())
		http.Redirect(w, r, "/tasker/scan", http.StatusSeeOther)
	}
}
