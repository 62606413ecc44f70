package settings

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"dockhand/infrastructure/sqlite"
)

func ScoringSettingsPageHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := LoadScoringSettings(r.Context(), db)
		if err != nil {
			slog.Error("settings: failed to load", slog.Any("err", err))
			http.Error(w, "failed to load settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page := ScoringSettingsPage(s, r.URL.Query().Get("status"), r.URL.Query().Get("error"))
		if err := page.Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render settings page", http.StatusInternalServerError)
			return
		}
	}
}

func UpdateScoringSettingsHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/tasker/settings?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		s, err := parseForm(r)
		if err != nil {
			http.Redirect(w, r, "/tasker/settings?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}

		if err := SaveScoringSettings(r.Context(), db, s); err != nil {
			switch {
			case errors.Is(err, ErrInvalidWeight), errors.Is(err, ErrWeightSum), errors.Is(err, ErrInvalidGrace):
				http.Redirect(w, r, "/tasker/settings?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			default:
				slog.Error("settings: failed to save", slog.Any("err", err))
				http.Redirect(w, r, "/tasker/settings?error="+url.QueryEscape("failed to save settings"), http.StatusSeeOther)
			}
			return
		}

		http.Redirect(w, r, "/tasker/settings?status="+url.QueryEscape("settings saved"), http.StatusSeeOther)
	}
}

func parseForm(r *http.Request) (ScoringSettings, error) {
	var s ScoringSettings
	var err error

	if s.WeightOnTime, err = parseWeight(r.FormValue("weight_on_time")); err != nil {
		return s, err
	}
	if s.WeightQuantity, err = parseWeight(r.FormValue("weight_quantity")); err != nil {
		return s, err
	}
	if s.WeightCompletion, err = parseWeight(r.FormValue("weight_completion")); err != nil {
		return s, err
	}

	grace := strings.TrimSpace(r.FormValue("grace_minutes"))
	s.GraceMinutes, err = strconv.ParseInt(grace, 10, 64)
	if err != nil {
		return s, ErrInvalidGrace
	}
	return s, nil
}

func parseWeight(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidWeight
	}
	return d, nil
}
