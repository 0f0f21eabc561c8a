// Package webapp serves the three screens of the attendance front-end:
// login, the employee dashboard, and the admin dashboard. Every screen is
// plain server-rendered HTML; all data comes from the backend API on each
// request and every mutation is proxied straight through. Outcomes travel
// as ?message= / ?error= query parameters on the redirect back to the page.
package webapp

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"

	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/amsapi"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/middleware"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/internal/session"
	"github.com/HoneyChauhan001/attendance-management-system-frontend/pkg/logger"
)

//go:embed templates/login.html templates/employee.html templates/admin.html assets/app.css
var templatesFS embed.FS

type Server struct {
	api          *amsapi.Client
	sessions     *session.Store
	cookieName   string
	loginTmpl    *template.Template
	employeeTmpl *template.Template
	adminTmpl    *template.Template
}

func New(api *amsapi.Client, sessions *session.Store, cookieName string) *Server {
	return &Server{
		api:          api,
		sessions:     sessions,
		cookieName:   cookieName,
		loginTmpl:    template.Must(template.ParseFS(templatesFS, "templates/login.html")),
		employeeTmpl: template.Must(template.ParseFS(templatesFS, "templates/employee.html")),
		adminTmpl:    template.Must(template.ParseFS(templatesFS, "templates/admin.html")),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.loginPage)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)
	r.Get("/assets/app.css", s.appCSSFile)

	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(amsapi.RoleEmployee))
		r.Get("/employee", s.employeePage)
		r.Post("/employee/clock-in", s.clockIn)
		r.Post("/employee/clock-out", s.clockOut)
		r.Post("/employee/corrections", s.submitCorrection)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireRole(amsapi.RoleAdmin))
		r.Get("/admin", s.adminPage)
		r.Get("/admin/attendance/export", s.exportSummary)
		r.Post("/admin/corrections/approve", s.approveSelected)
		r.Post("/admin/corrections/{id}/reject", s.rejectCorrection)
	})

	csp := strings.Join([]string{
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"script-src 'self' 'unsafe-inline'",
		"connect-src 'self'",
		"frame-ancestors 'none'",
	}, "; ")

	return middleware.Chain(
		r,
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: csp}),
	)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if sess := s.sessionFromRequest(r); sess != nil && sess.User != nil {
		http.Redirect(w, r, roleHome(sess.User), http.StatusFound)
		return
	}

	data := pageData{Error: r.URL.Query().Get("error")}
	if err := s.render(w, r, s.loginTmpl, data); err != nil {
		http.Error(w, "template render failed", http.StatusInternalServerError)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error=Invalid+form+submission", http.StatusFound)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		http.Redirect(w, r, "/?error=Username+and+password+are+required", http.StatusFound)
		return
	}

	user, sessionID, err := s.sessions.Login(r.Context(), username, password)
	if err != nil {
		logger.From(r.Context()).Warn("login failed", "username", username, "error", err)
		http.Redirect(w, r, "/?error="+url.QueryEscape(loginFailureNotice(err)), http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, roleHome(user), http.StatusFound)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		s.sessions.Logout(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) appCSSFile(w http.ResponseWriter, r *http.Request) {
	data, err := templatesFS.ReadFile("assets/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(data)
}

func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := s.sessionFromRequest(r)
			if sess == nil || sess.User == nil {
				http.Redirect(w, r, "/?error=Please+sign+in", http.StatusFound)
				return
			}
			if sess.User.Role != role {
				http.Redirect(w, r, roleHome(sess.User), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) sessionFromRequest(r *http.Request) *session.Session {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data pageData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		logger.From(r.Context()).Error("template render failed", "template", tmpl.Name(), "error", err)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(buf.Bytes())
	return err
}

func roleHome(user *amsapi.User) string {
	if user != nil && user.Role == amsapi.RoleEmployee {
		return "/employee"
	}
	return "/admin"
}

func loginFailureNotice(err error) string {
	var apiErr *amsapi.APIError
	if errors.As(err, &apiErr) {
		return "Login failed: " + apiErr.Message
	}
	return "Login failed"
}
