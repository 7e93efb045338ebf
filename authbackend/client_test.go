package authbackend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/product-console/authbackend"
	"github.com/jrsteele09/product-console/session"
)

func TestClient_Login(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"accessToken": "access",
			"refreshToken": "refresh",
			"userData": {"id": 1, "username": "emilys", "firstname": "Emily", "isActive": 1, "UserType": 1},
			"userURL": [{"ScreenUrl": "/dashboard", "ScreenName": "Dashboard"}]
		}`))
	}))
	defer srv.Close()

	c := authbackend.New(srv.URL + "/api")
	resp, err := c.Login(context.Background(), session.LoginRequest{Username: "emilys", Password: "emilyspass", TTLMinutes: 30})
	require.NoError(t, err)

	require.Equal(t, "emilys", got["username"])
	require.Equal(t, "emilyspass", got["password"])
	require.EqualValues(t, 30, got["expiresInMins"])
	require.NotContains(t, got, "role")

	require.Equal(t, "access", resp.AccessToken)
	require.Equal(t, "refresh", resp.RefreshToken)
	require.Equal(t, session.ID("1"), resp.UserProfile.ID)
	require.True(t, bool(resp.UserProfile.IsActive))
	require.Equal(t, []session.ScreenGrant{{ScreenURL: "/dashboard", ScreenName: "Dashboard"}}, resp.PermittedScreens)
}

func TestClient_LoginSendsRole(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"accessToken": "a"}`))
	}))
	defer srv.Close()

	_, err := authbackend.New(srv.URL).Login(context.Background(), session.LoginRequest{Username: "u", Role: "admin"})
	require.NoError(t, err)
	require.Equal(t, "admin", got["role"])
}

func TestClient_LoginStatusError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", status)
		}))

		_, err := authbackend.New(srv.URL).Login(context.Background(), session.LoginRequest{Username: "u"})
		srv.Close()

		var se *authbackend.StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, status, se.StatusCode())
	}
}

func TestClient_Refresh(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		access string
	}{
		{name: "accessToken", body: `{"accessToken": "new-access", "refreshToken": "new-refresh"}`, access: "new-access"},
		{name: "legacy token", body: `{"token": "legacy-access", "refreshToken": "new-refresh"}`, access: "legacy-access"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/auth/refresh", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, "old-refresh", body["refreshToken"])
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tok, err := authbackend.New(srv.URL).Refresh(context.Background(), "old-refresh")
			require.NoError(t, err)
			require.Equal(t, tt.access, tok.AccessToken)
			require.Equal(t, "new-refresh", tok.RefreshToken)
		})
	}
}

func TestClient_RefreshFailures(t *testing.T) {
	t.Run("non 2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expired", http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := authbackend.New(srv.URL).Refresh(context.Background(), "r")
		var se *authbackend.StatusError
		require.ErrorAs(t, err, &se)
		require.Equal(t, http.StatusForbidden, se.Status)
	})

	t.Run("no access token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"refreshToken": "r2"}`))
		}))
		defer srv.Close()

		_, err := authbackend.New(srv.URL).Refresh(context.Background(), "r")
		require.Error(t, err)
	})

	t.Run("custom refresh url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/elsewhere", r.URL.Path)
			_, _ = w.Write([]byte(`{"accessToken": "a", "refreshToken": "r2"}`))
		}))
		defer srv.Close()

		c := authbackend.New("http://127.0.0.1:1/", authbackend.WithRefreshURL(srv.URL+"/elsewhere"))
		tok, err := c.Refresh(context.Background(), "r")
		require.NoError(t, err)
		require.Equal(t, "a", tok.AccessToken)
	})
}
