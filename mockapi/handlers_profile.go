package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/product-console/users"
)

type generateOTPRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type verifyOTPRequest struct {
	Email string   `json:"email"`
	OTP   otpValue `json:"otp"`
}

type editProfileRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Gender    string `json:"gender"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// currentUser loads the account behind the request's access token.
func (s *Server) currentUser(r *http.Request) (*users.User, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		return nil, false
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, false
	}
	u, err := s.users.GetByID(id)
	if err != nil {
		return nil, false
	}
	return u, true
}

// GenerateOTPHandler issues a code to the caller's own email address. The
// requested name change is held until the code is verified.
func (s *Server) GenerateOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			writeJSONError(w, "User not found", http.StatusUnauthorized)
			return
		}

		var req generateOTPRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, result{Message: "Invalid request"}, http.StatusBadRequest)
			return
		}
		if !strings.EqualFold(req.Email, u.Email) {
			writeJSON(w, result{Message: "Email does not match your account"}, http.StatusOK)
			return
		}

		code, err := s.otps.issue(u.Email, u.ID, req.FirstName, req.LastName)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to issue otp")
			writeJSON(w, result{Message: "Failed to generate OTP."}, http.StatusInternalServerError)
			return
		}
		s.sendOTP(u.Email, code)
		writeJSON(w, result{Success: true, Message: "OTP sent to your email"}, http.StatusOK)
	}
}

// VerifyOTPHandler checks the code and applies the pending name change.
func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			writeJSONError(w, "User not found", http.StatusUnauthorized)
			return
		}

		var req verifyOTPRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, result{Message: "Invalid request"}, http.StatusBadRequest)
			return
		}
		if !strings.EqualFold(req.Email, u.Email) {
			writeJSON(w, result{Message: "OTP verification failed."}, http.StatusOK)
			return
		}

		pending, ok := s.otps.verify(u.Email, string(req.OTP))
		if !ok || pending.userID != u.ID {
			writeJSON(w, result{Message: "Invalid OTP"}, http.StatusOK)
			return
		}

		if pending.firstName != "" {
			u.FirstName = pending.firstName
		}
		if pending.lastName != "" {
			u.LastName = pending.lastName
		}
		if err := s.users.Upsert(u); err != nil {
			writeJSON(w, result{Message: "Failed to update profile"}, http.StatusInternalServerError)
			return
		}
		writeJSON(w, result{Success: true, Message: "Profile updated"}, http.StatusOK)
	}
}

// EditProfileHandler requires an OTP verified since the last edit.
func (s *Server) EditProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			writeJSONError(w, "User not found", http.StatusUnauthorized)
			return
		}

		var req editProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, result{Message: "Invalid request"}, http.StatusBadRequest)
			return
		}
		if !s.otps.consumeGrant(u.ID) {
			writeJSON(w, result{Message: "OTP verification required"}, http.StatusForbidden)
			return
		}

		if req.FirstName != "" {
			u.FirstName = req.FirstName
		}
		if req.LastName != "" {
			u.LastName = req.LastName
		}
		if req.Gender != "" {
			u.Gender = req.Gender
		}
		if err := s.users.Upsert(u); err != nil {
			writeJSON(w, result{Message: "Failed to update profile"}, http.StatusInternalServerError)
			return
		}
		// Existing sessions must sign in again to see the new profile.
		_ = s.refresh.Revoke(strconv.Itoa(u.ID))
		writeJSON(w, result{Success: true, Message: "Profile updated"}, http.StatusOK)
	}
}

// ChangePasswordHandler replaces the password and revokes the user's refresh token.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			writeJSONError(w, "User not found", http.StatusUnauthorized)
			return
		}

		var req changePasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSON(w, result{Message: "Invalid request"}, http.StatusBadRequest)
			return
		}
		if !u.CheckPassword(req.CurrentPassword) {
			writeJSON(w, result{Message: "Current password is incorrect"}, http.StatusUnauthorized)
			return
		}
		if err := users.ValidatePasswordStrength(req.NewPassword); err != nil {
			writeJSON(w, result{Message: err.Error()}, http.StatusBadRequest)
			return
		}

		hash, err := users.HashPassword(req.NewPassword)
		if err != nil {
			writeJSON(w, result{Message: "Failed to change password"}, http.StatusInternalServerError)
			return
		}
		u.PasswordHash = hash
		if err := s.users.Upsert(u); err != nil {
			writeJSON(w, result{Message: "Failed to change password"}, http.StatusInternalServerError)
			return
		}
		_ = s.refresh.Revoke(strconv.Itoa(u.ID))
		writeJSON(w, result{Success: true, Message: "Password changed"}, http.StatusOK)
	}
}
