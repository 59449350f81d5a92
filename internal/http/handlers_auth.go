package http

import (
	"context"
	"net/http"

	"budgetview/internal/core"
	"budgetview/internal/log"
)

type authPage struct {
	pageContext
	Email    string
	Username string
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "signup.html", authPage{pageContext: s.pageContext("signup")})
		return
	}
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}

	input := core.SignupInput{
		Username: sanitizeInput(r.Form.Get("username")),
		Email:    sanitizeInput(r.Form.Get("email")),
		Password: r.Form.Get("password"),
	}
	if err := input.Validate(); err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	resp, err := s.api.Signup(ctx, input)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Signup failed",
			log.FieldUsername, input.Username,
			log.FieldOperation, log.OpSignup,
			"error", err)
		backendError(err).Write(w)
		return
	}

	s.session.SetToken(r.Context(), resp.Token)
	s.session.SetUsername(r.Context(), resp.Username)
	s.notify.Success("Welcome, " + resp.Username + "! Your account is ready.")

	s.logger.InfoContext(r.Context(), "User signed up",
		log.FieldUsername, resp.Username,
		log.FieldOperation, log.OpSignup)

	redirect(w, r, "/dashboard")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "login.html", authPage{pageContext: s.pageContext("login")})
		return
	}
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		badRequest("Invalid form submission").Write(w)
		return
	}

	input := core.LoginInput{
		Email:    sanitizeInput(r.Form.Get("email")),
		Password: r.Form.Get("password"),
	}
	if err := input.Validate(); err != nil {
		unprocessable(err.Error()).Write(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	resp, err := s.api.Login(ctx, input)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Login failed",
			log.FieldOperation, log.OpLogin,
			"error", err)
		backendError(err).Write(w)
		return
	}

	s.session.SetToken(r.Context(), resp.Token)
	s.session.SetUsername(r.Context(), resp.Username)
	s.notify.Success("Welcome back, " + resp.Username + "!")

	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldUsername, resp.Username,
		log.FieldOperation, log.OpLogin)

	redirect(w, r, "/dashboard")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	username := s.session.Username()
	s.session.Logout(r.Context())

	s.logger.InfoContext(r.Context(), "User logged out",
		log.FieldUsername, username,
		log.FieldOperation, log.OpLogout)

	redirect(w, r, "/login")
}
