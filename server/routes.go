package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(s.RequestIDMiddleware, s.LoggingMiddleware, s.RecoverMiddleware, s.FrameSecurityMiddleware, s.CorsMiddleware())

	s.route(r, http.MethodGet, RouteIndex, s.IndexHandler())
	s.route(r, http.MethodPost, RouteLogin, s.LoginHandler())
	s.route(r, http.MethodPost, RouteLogout, s.LogoutHandler())

	// Screens are checked against the request path itself.
	r.Group(func(r chi.Router) {
		r.Use(s.guard.Middleware)
		s.route(r, http.MethodGet, RouteDashboard, s.DashboardHandler())
		s.route(r, http.MethodGet, RouteProducts, s.ProductsHandler())
		s.route(r, http.MethodGet, RouteProfile, s.ProfileHandler())
	})

	// Sub-resources are checked against the screen they belong to.
	r.With(s.guard.RequireScreen(RouteProducts)).Get(RouteReviews, s.ReviewsHandler())
	s.routes = append(s.routes, http.MethodGet+" "+RouteReviews)

	r.Group(func(r chi.Router) {
		r.Use(s.guard.RequireScreen(RouteProfile))
		s.route(r, http.MethodPost, RouteProfileOTP, s.RequestOTPHandler())
		s.route(r, http.MethodPost, RouteProfileOTPVerify, s.VerifyOTPHandler())
		s.route(r, http.MethodPost, RouteProfileEdit, s.EditProfileHandler())
		s.route(r, http.MethodPost, RouteProfilePassword, s.ChangePasswordHandler())
	})

	r.Method(http.MethodGet, RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.routes = append(s.routes, http.MethodGet+" "+RouteMetrics)

	r.NotFound(s.NotFoundHandler())
	s.router = r
}

func (s *Server) route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	r.MethodFunc(method, pattern, h)
}
