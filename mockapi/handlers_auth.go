package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/users"
)

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
	Role          string `json:"role"`
}

type loginResponse struct {
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
	UserData     session.UserProfile   `json:"userData"`
	UserURL      []session.ScreenGrant `json:"userURL"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginHandler answers 404 for an unknown username, 401 for a wrong password
// or role and 403 for an inactive account.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil || req.Username == "" {
			writeJSONError(w, "Username and password required", http.StatusBadRequest)
			return
		}

		u, err := s.checkCredentials(req.Username, req.Password, req.Role)
		if err != nil {
			status, message := loginFailure(err)
			writeJSONError(w, message, status)
			return
		}

		ttl := req.ExpiresInMins
		if ttl <= 0 {
			ttl = session.DefaultTokenTTLMinutes
		}

		userID := strconv.Itoa(u.ID)
		access, err := s.creator.CreateAccessToken(userID, u.Username, int(u.UserType), time.Duration(ttl)*time.Minute)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		rt, err := s.refresh.Create(userID, ttl)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create refresh token")
			writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		u.LastLogin = s.nowFunc()
		_ = s.users.Upsert(u)

		s.logger.Debug().Str("username", u.Username).Int("ttl_minutes", ttl).Msg("mock login")
		writeJSON(w, loginResponse{
			AccessToken:  access,
			RefreshToken: rt.Token,
			UserData:     u.Profile(),
			UserURL:      u.Screens,
		}, http.StatusOK)
	}
}

// checkCredentials resolves the user behind a login attempt. Failures wrap
// ErrUserNotFound, ErrInvalidCredentials or ErrUserInactive.
func (s *Server) checkCredentials(username, password, role string) (*users.User, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrUserNotFound, "%s", username)
	}
	if !u.CheckPassword(password) {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrInvalidCredentials, "%s", username)
	}
	if role != "" && !strings.EqualFold(role, u.UserType.Label()) {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrInvalidCredentials, "%s: role %q", username, role)
	}
	if !u.Active {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrUserInactive, "%s", username)
	}
	return u, nil
}

func loginFailure(err error) (int, string) {
	switch {
	case consoleerrors.Is(err, consoleerrors.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case consoleerrors.Is(err, consoleerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case consoleerrors.Is(err, consoleerrors.ErrUserInactive):
		return http.StatusForbidden, "User is inactive"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// RefreshHandler rotates a refresh token. The old token stops working and the
// new access token keeps the lifetime requested at login.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeJSONError(w, "Refresh token required", http.StatusBadRequest)
			return
		}

		rt, err := s.refresh.Rotate(req.RefreshToken)
		if err != nil {
			writeJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
			return
		}

		id, _ := strconv.Atoi(rt.UserID)
		u, err := s.users.GetByID(id)
		if err != nil || !u.Active {
			_ = s.refresh.Revoke(rt.UserID)
			writeJSONError(w, "Invalid refresh token", http.StatusUnauthorized)
			return
		}

		access, err := s.creator.CreateAccessToken(rt.UserID, u.Username, int(u.UserType), time.Duration(rt.TTLMinutes)*time.Minute)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			writeJSONError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, refreshResponse{AccessToken: access, RefreshToken: rt.Token}, http.StatusOK)
	}
}
