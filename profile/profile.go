// Package profile runs the self-service profile flows: an OTP-confirmed
// profile update and a password change. Both end the session on success.
package profile

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/product-console/api"
	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

// Backend is the subset of the API client the flows call.
type Backend interface {
	GenerateOTP(ctx context.Context, req api.OTPRequest) (*api.Result, error)
	VerifyOTP(ctx context.Context, email, otp string) (*api.Result, error)
	EditProfile(ctx context.Context, update api.ProfileUpdate) (*api.Result, error)
	ChangePassword(ctx context.Context, change api.PasswordChange) (*api.Result, error)
}

type statusCoder interface {
	StatusCode() int
}

// Session is logged out after a sensitive change.
type Session interface {
	Logout()
}

// Service drives the profile flows for the current session.
type Service struct {
	backend Backend
	session Session
	logger  zerolog.Logger
}

func New(backend Backend, s Session) *Service {
	return &Service{backend: backend, session: s, logger: log.Logger}
}

// RequestOTP asks the backend to email a code that confirms a name change.
func (s *Service) RequestOTP(ctx context.Context, req api.OTPRequest) (*api.Result, error) {
	res, err := s.backend.GenerateOTP(ctx, req)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "generate otp: %s", messageOr(res, "Failed to generate OTP."))
	}
	return res, nil
}

// VerifyOTP confirms the code. A rejected code returns ErrInvalidOTP and the
// session is untouched.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (*api.Result, error) {
	res, err := s.backend.VerifyOTP(ctx, email, otp)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, consoleerrors.Wrapf(consoleerrors.ErrInvalidOTP, "%s", messageOr(res, "OTP verification failed."))
	}
	return res, nil
}

// EditProfile saves the update and logs the session out on success.
func (s *Service) EditProfile(ctx context.Context, update api.ProfileUpdate) (*api.Result, error) {
	res, err := s.backend.EditProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "edit profile: %s", messageOr(res, "Failed to update profile"))
	}
	s.logger.Info().Msg("profile updated, signing out")
	s.session.Logout()
	return res, nil
}

// ChangePassword replaces the password and logs the session out on success.
// A rejected current password wraps ErrInvalidCredentials; other declines
// wrap ErrInvalidRequest.
func (s *Service) ChangePassword(ctx context.Context, change api.PasswordChange) (*api.Result, error) {
	res, err := s.backend.ChangePassword(ctx, change)
	if err != nil {
		var sc statusCoder
		if consoleerrors.As(err, &sc) && sc.StatusCode() == http.StatusUnauthorized {
			return nil, fmt.Errorf("change password: %w: %w", consoleerrors.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if !res.Success {
		return res, consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "change password: %s", messageOr(res, "Failed to change password"))
	}
	s.logger.Info().Msg("password changed, signing out")
	s.session.Logout()
	return res, nil
}

func messageOr(res *api.Result, fallback string) string {
	if res.Message != "" {
		return res.Message
	}
	return fallback
}
