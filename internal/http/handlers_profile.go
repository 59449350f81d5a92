package http

import (
	"context"
	"net/http"

	"budgetview/internal/core"
	"budgetview/internal/log"
)

type profilePage struct {
	pageContext
	Profile   core.Profile
	Settings  core.Settings
	LoadError string
}

const settingsCacheKey = "settings?current"

// currentSettings fetches the preferences from the backend through the view
// cache, keeping the local store as a last-known-good copy. When the backend
// is unreachable the local copy is served, and failing that the defaults.
func (s *Server) currentSettings(ctx context.Context) core.Settings {
	if cached, ok := s.settingsCache.Get(settingsCacheKey); ok {
		s.cacheHit()
		return cached
	}
	s.cacheMiss()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	settings, err := s.api.Settings(fetchCtx)
	if err == nil {
		s.settingsCache.Set(settingsCacheKey, settings)
		s.rememberSettings(ctx, settings)
		return settings
	}
	s.logger.WarnContext(ctx, "Failed to load settings from backend",
		log.FieldOperation, log.OpRead,
		"error", err)

	if s.settings != nil {
		if cached, err := s.settings.LoadSettings(ctx); err == nil {
			return cached
		}
	}
	return core.DefaultSettings()
}

// rememberSettings writes the backend's settings to the local store so they
// survive the next backend outage. Best effort.
func (s *Server) rememberSettings(ctx context.Context, settings core.Settings) {
	if s.settings == nil {
		return
	}
	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache settings locally", "error", err)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderProfile(w, r)
	case http.MethodPost:
		s.updateProfile(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request) {
	data := profilePage{
		pageContext: s.pageContext("profile"),
		Settings:    s.currentSettings(r.Context()),
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	profile, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to load profile",
			log.FieldOperation, log.OpRead,
			"error", err)
		data.LoadError = err.Error()
	} else {
		data.Profile = profile
	}

	s.render(w, r, "profile.html", data)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}

	input := core.ProfileInput{
		Username: sanitizeInput(r.Form.Get("username")),
		Email:    sanitizeInput(r.Form.Get("email")),
	}
	if err := input.Validate(); err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	profile, err := s.api.UpdateProfile(ctx, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update profile",
			log.FieldOperation, log.OpUpdate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.session.SetUsername(r.Context(), profile.Username)
	s.notify.Success("Profile updated")

	s.logger.InfoContext(r.Context(), "Profile updated",
		log.FieldUsername, profile.Username,
		log.FieldOperation, log.OpUpdate)

	NewHTMXResponse().
		TriggerNotification("success", "Profile updated", 3000).
		BodyHTML(`<div class="success">Profile updated</div>`).
		Write(w)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}

	input := core.SettingsInput{
		Currency:           sanitizeInput(r.Form.Get("currency")),
		EmailNotifications: r.Form.Get("email_notifications") == "on",
	}
	if input.Currency == "" {
		input.Currency = core.DefaultSettings().Currency
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	settings, err := s.api.UpdateSettings(ctx, input)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update settings",
			log.FieldOperation, log.OpUpdate,
			"error", err)
		s.notify.Error(err.Error())
		backendError(err).Write(w)
		return
	}

	s.settingsCache.Set(settingsCacheKey, settings)
	s.rememberSettings(r.Context(), settings)
	s.notify.Success("Settings saved")

	NewHTMXResponse().
		TriggerNotification("success", "Settings saved", 3000).
		BodyHTML(`<div class="success">Settings saved</div>`).
		Write(w)
}
