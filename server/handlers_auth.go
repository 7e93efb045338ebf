package server

import (
	"net/http"

	"github.com/jrsteele09/product-console/guard"
	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
)

type loginBody struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	TTLMinutes int    `json:"expiresInMins,omitempty"`
}

type statusBody struct {
	Authenticated bool                  `json:"authenticated"`
	Username      string                `json:"username,omitempty"`
	Error         string                `json:"error,omitempty"`
	Screens       []session.ScreenGrant `json:"screens"`
}

// IndexHandler is the login route. A signed in user is sent on to the landing screen.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.store.Snapshot()
		if snap.IsAuthenticated {
			http.Redirect(w, r, guard.LandingRoute, http.StatusSeeOther)
			return
		}
		writeJSON(w, statusBody{
			Authenticated: false,
			Error:         snap.LastError,
			Screens:       snap.PermittedScreens,
		}, http.StatusOK)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		if err := decodeJSON(r, &body); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if body.Username == "" || body.Password == "" {
			writeJSONError(w, "username and password are required", http.StatusBadRequest)
			return
		}
		if body.Role == "" {
			body.Role = s.config.GetLoginRole()
		}

		profile, err := s.store.Login(r.Context(), session.LoginRequest{
			Username:   body.Username,
			Password:   body.Password,
			Role:       body.Role,
			TTLMinutes: body.TTLMinutes,
		})
		if err != nil {
			var authErr *session.AuthError
			if consoleerrors.As(err, &authErr) {
				writeJSONError(w, authErr.Message, loginFailureStatus(authErr.Status))
				return
			}
			writeJSONError(w, session.MsgLoginFailed, http.StatusBadGateway)
			return
		}

		writeJSON(w, statusBody{
			Authenticated: true,
			Username:      profile.Username,
			Screens:       s.store.PermittedScreens(),
		}, http.StatusOK)
	}
}

// loginFailureStatus passes credential failures through and reports anything
// else as an upstream failure.
func loginFailureStatus(backendStatus int) int {
	switch backendStatus {
	case http.StatusUnauthorized, http.StatusNotFound:
		return backendStatus
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.store.Logout()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, "not found", http.StatusNotFound)
	}
}
