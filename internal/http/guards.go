package http

import "net/http"

// requireAuth redirects logged-out visitors to the login page. The session is
// read live on every request, so a logout in another tab takes effect on the
// next navigation.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.LoggedIn() {
			redirect(w, r, "/login")
			return
		}
		next(w, r)
	}
}

// requireAnon keeps logged-in users off the auth pages.
func (s *Server) requireAnon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.session.LoggedIn() {
			redirect(w, r, "/dashboard")
			return
		}
		next(w, r)
	}
}

// redirect sends the client to target. HTMX requests get an HX-Redirect
// header so the browser performs a full navigation instead of swapping the
// response into the page.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
