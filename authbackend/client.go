// Package authbackend talks to the remote authentication endpoints: login and
// token refresh.
package authbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jrsteele09/product-console/session"
)

const (
	loginPath   = "auth/login"
	refreshPath = "auth/refresh"
)

var _ session.AuthBackend = (*Client)(nil)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

func (e *StatusError) StatusCode() int {
	return e.Status
}

// Client calls the auth endpoints over plain HTTP. Its requests never carry
// the session's bearer token.
type Client struct {
	baseURL    string
	refreshURL string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client. It must not route through the
// authenticating transport or refreshes would recurse.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRefreshURL overrides the refresh endpoint, which otherwise lives under the base URL.
func WithRefreshURL(u string) Option {
	return func(c *Client) {
		c.refreshURL = u
	}
}

func New(baseURL string, options ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		refreshURL: baseURL + refreshPath,
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
	Role          string `json:"role,omitempty"`
}

type loginResponse struct {
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
	UserData     session.UserProfile   `json:"userData"`
	UserURL      []session.ScreenGrant `json:"userURL"`
}

// Login exchanges credentials for a token pair, the user's profile and the
// screens they may open.
func (c *Client) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResponse, error) {
	var resp loginResponse
	err := c.postJSON(ctx, c.baseURL+loginPath, loginRequest{
		Username:      req.Username,
		Password:      req.Password,
		ExpiresInMins: req.TTLMinutes,
		Role:          req.Role,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("Client.Login: %w", err)
	}

	return &session.LoginResponse{
		AccessToken:      resp.AccessToken,
		RefreshToken:     resp.RefreshToken,
		UserProfile:      resp.UserData,
		PermittedScreens: resp.UserURL,
	}, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a refresh token for a new pair. Older backends name the
// access token "token"; both spellings are accepted.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	var resp refreshResponse
	if err := c.postJSON(ctx, c.refreshURL, refreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, fmt.Errorf("Client.Refresh: %w", err)
	}

	access := resp.AccessToken
	if access == "" {
		access = resp.Token
	}
	if access == "" {
		return nil, fmt.Errorf("Client.Refresh: response carried no access token")
	}

	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: resp.RefreshToken,
		TokenType:    "Bearer",
	}, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
