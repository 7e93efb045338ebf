package api

import (
	"context"
	"fmt"
)

// Result is the {success, message} answer of the profile endpoints.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OTPRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type ProfileUpdate struct {
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Gender    string `json:"gender,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) GenerateOTP(ctx context.Context, req OTPRequest) (*Result, error) {
	var out Result
	if err := c.post(ctx, "users/generateOtp", req, &out); err != nil {
		return nil, fmt.Errorf("Client.GenerateOTP: %w", err)
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*Result, error) {
	var out Result
	body := map[string]string{"email": email, "otp": otp}
	if err := c.post(ctx, "users/verifyOTP", body, &out); err != nil {
		return nil, fmt.Errorf("Client.VerifyOTP: %w", err)
	}
	return &out, nil
}

func (c *Client) EditProfile(ctx context.Context, update ProfileUpdate) (*Result, error) {
	var out Result
	if err := c.post(ctx, "users/editProfile", update, &out); err != nil {
		return nil, fmt.Errorf("Client.EditProfile: %w", err)
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) (*Result, error) {
	var out Result
	if err := c.post(ctx, "users/changePassword", change, &out); err != nil {
		return nil, fmt.Errorf("Client.ChangePassword: %w", err)
	}
	return &out, nil
}
