package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/product-console/api"
	"github.com/jrsteele09/product-console/authbackend"
	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

type otpRequestBody struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type otpVerifyBody struct {
	OTP string `json:"otp"`
}

func (s *Server) RequestOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otpRequestBody
		if err := decodeJSON(r, &body); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := s.profile.RequestOTP(r.Context(), api.OTPRequest{
			Email:     s.store.Profile().Email,
			FirstName: body.FirstName,
			LastName:  body.LastName,
		})
		s.writeResult(w, r, res, err)
	}
}

func (s *Server) VerifyOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body otpVerifyBody
		if err := decodeJSON(r, &body); err != nil || body.OTP == "" {
			writeJSONError(w, "otp is required", http.StatusBadRequest)
			return
		}
		res, err := s.profile.VerifyOTP(r.Context(), s.store.Profile().Email, body.OTP)
		s.writeResult(w, r, res, err)
	}
}

func (s *Server) EditProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body api.ProfileUpdate
		if err := decodeJSON(r, &body); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		res, err := s.profile.EditProfile(r.Context(), body)
		s.writeResult(w, r, res, err)
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body api.PasswordChange
		if err := decodeJSON(r, &body); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if body.CurrentPassword == "" || body.NewPassword == "" {
			writeJSONError(w, "currentPassword and newPassword are required", http.StatusBadRequest)
			return
		}
		res, err := s.profile.ChangePassword(r.Context(), body)
		s.writeResult(w, r, res, err)
	}
}

// writeResult reports a profile flow outcome. A result the backend declined
// is a 422 carrying the backend's message.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res *api.Result, err error) {
	switch {
	case err == nil:
		writeJSON(w, res, http.StatusOK)
	case res != nil:
		writeJSON(w, res, http.StatusUnprocessableEntity)
	default:
		s.backendError(w, r, err)
	}
}

// backendError maps an upstream failure onto the console's response. Client
// errors keep their status and the backend's message.
func (s *Server) backendError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn().Err(err).Str("request_id", requestID(r)).Str("path", r.URL.Path).Msg("backend call failed")

	var statusErr *authbackend.StatusError
	if !consoleerrors.As(err, &statusErr) || statusErr.Status < 400 || statusErr.Status >= 500 {
		writeJSONError(w, "backend unavailable", http.StatusBadGateway)
		return
	}

	fallback := http.StatusText(statusErr.Status)
	if statusErr.Status == http.StatusUnauthorized {
		fallback = "session expired"
	}
	writeJSONError(w, backendMessage(statusErr.Body, fallback), statusErr.Status)
}

// backendMessage pulls the message out of a {message} error body.
func backendMessage(body, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil || parsed.Message == "" {
		return fallback
	}
	return parsed.Message
}
