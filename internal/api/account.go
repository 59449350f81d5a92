package api

import (
	"context"
	"net/http"

	"budgetview/internal/core"
)

// AuthResponse is the token grant returned by signup and login. Message is
// only set on signup.
type AuthResponse struct {
	Message  string `json:"message,omitempty"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Signup registers a new account. The backend logs the user straight in, so
// the response carries a usable token.
func (c *Client) Signup(ctx context.Context, input core.SignupInput) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "signup/", nil, input, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Login exchanges email and password for a token.
func (c *Client) Login(ctx context.Context, input core.LoginInput) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "login/", nil, input, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (core.Profile, error) {
	var p core.Profile
	if err := c.do(ctx, http.MethodGet, "profile/", nil, nil, &p); err != nil {
		return core.Profile{}, err
	}
	return p, nil
}

// UpdateProfile submits profile changes and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, input core.ProfileInput) (core.Profile, error) {
	var p core.Profile
	if err := c.do(ctx, http.MethodPut, "profile/", nil, input, &p); err != nil {
		return core.Profile{}, err
	}
	return p, nil
}

// Settings fetches the authenticated user's preferences.
func (c *Client) Settings(ctx context.Context) (core.Settings, error) {
	var s core.Settings
	if err := c.do(ctx, http.MethodGet, "settings/", nil, nil, &s); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}

// UpdateSettings submits preference changes and returns the stored settings.
func (c *Client) UpdateSettings(ctx context.Context, input core.SettingsInput) (core.Settings, error) {
	var s core.Settings
	if err := c.do(ctx, http.MethodPut, "settings/", nil, input, &s); err != nil {
		return core.Settings{}, err
	}
	return s, nil
}
