package authenticator_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/product-console/authenticator"
	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/token"
)

func now() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

type noBackend struct{}

func (noBackend) Login(context.Context, session.LoginRequest) (*session.LoginResponse, error) {
	return nil, errors.New("not used")
}

func newStore(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.NewStore(noBackend{})
	require.NoError(t, err)
	return s
}

func mintToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	c := token.NewCreator(token.NewHMACSigner("secret"), token.WithNowFunc(now))
	raw, err := c.CreateAccessToken("1", "emilys", 1, ttl)
	require.NoError(t, err)
	return raw
}

type refresher struct {
	calls atomic.Int32
	tok   *oauth2.Token
	err   error
	gate  chan struct{}
}

func (r *refresher) Refresh(_ context.Context, _ string) (*oauth2.Token, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	return r.tok, r.err
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://backend.test/dash/getProductCount", nil)
	require.NoError(t, err)
	return req
}

func TestAuthenticate_ValidToken(t *testing.T) {
	store := newStore(t)
	valid := mintToken(t, time.Hour)
	store.RefreshTokens(valid, "refresh-1")
	r := &refresher{}

	a := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now))
	req := newRequest(t)
	out := a.Authenticate(req)

	require.Equal(t, "Bearer "+valid, out.Header.Get("Authorization"))
	require.Empty(t, req.Header.Get("Authorization"))
	require.Zero(t, r.calls.Load())
}

func TestAuthenticate_ExpiredTokenRefreshedOnce(t *testing.T) {
	store := newStore(t)
	store.RefreshTokens(mintToken(t, -time.Minute), "refresh-1")
	fresh := mintToken(t, time.Hour)
	r := &refresher{tok: &oauth2.Token{AccessToken: fresh, RefreshToken: "refresh-2"}}
	m := metrics.New(prometheus.NewRegistry())

	a := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now), authenticator.WithMetrics(m))
	out := a.Authenticate(newRequest(t))

	require.EqualValues(t, 1, r.calls.Load())
	require.Equal(t, "Bearer "+fresh, out.Header.Get("Authorization"))

	access, refresh := store.Tokens()
	require.Equal(t, fresh, access)
	require.Equal(t, "refresh-2", refresh)
	require.True(t, store.IsAuthenticated())
	require.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.OutcomeSuccess)))

	a.Authenticate(newRequest(t))
	require.EqualValues(t, 1, r.calls.Load())
}

func TestAuthenticate_UndecodableTokenCountsAsExpired(t *testing.T) {
	store := newStore(t)
	store.RefreshTokens("garbage", "refresh-1")
	fresh := mintToken(t, time.Hour)
	r := &refresher{tok: &oauth2.Token{AccessToken: fresh, RefreshToken: "refresh-2"}}

	out := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now)).Authenticate(newRequest(t))
	require.EqualValues(t, 1, r.calls.Load())
	require.Equal(t, "Bearer "+fresh, out.Header.Get("Authorization"))
}

func TestAuthenticate_RefreshFailureLogsOut(t *testing.T) {
	store := newStore(t)
	store.RefreshTokens(mintToken(t, -time.Minute), "refresh-1")
	r := &refresher{err: errors.New("HTTP 403")}
	m := metrics.New(prometheus.NewRegistry())

	a := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now), authenticator.WithMetrics(m))
	out := a.Authenticate(newRequest(t))

	require.Empty(t, out.Header.Get("Authorization"))
	require.False(t, store.IsAuthenticated())
	access, refresh := store.Tokens()
	require.Empty(t, access)
	require.Empty(t, refresh)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.OutcomeFailure)))
}

func TestAuthenticate_EmptyRefreshResultLogsOut(t *testing.T) {
	tests := []struct {
		name string
		tok  *oauth2.Token
	}{
		{"nil token", nil},
		{"empty access token", &oauth2.Token{RefreshToken: "refresh-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			store.RefreshTokens(mintToken(t, -time.Minute), "refresh-1")
			r := &refresher{tok: tt.tok}

			var out *http.Request
			require.NotPanics(t, func() {
				out = authenticator.Authenticate(newRequest(t), store, r.Refresh)
			})
			require.Empty(t, out.Header.Get("Authorization"))
			require.False(t, store.IsAuthenticated())
			access, refresh := store.Tokens()
			require.Empty(t, access)
			require.Empty(t, refresh)
		})
	}
}

func TestAuthenticate_NoToken(t *testing.T) {
	store := newStore(t)
	r := &refresher{}

	req := newRequest(t)
	req.Header.Set("Authorization", "Bearer stale")
	out := authenticator.Authenticate(req, store, r.Refresh)

	require.Empty(t, out.Header.Get("Authorization"))
	require.Zero(t, r.calls.Load())
}

func TestAuthenticate_ExpiredWithoutRefreshToken(t *testing.T) {
	store := newStore(t)
	expired := mintToken(t, -time.Minute)
	store.RefreshTokens(expired, "")
	r := &refresher{}

	out := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now)).Authenticate(newRequest(t))
	require.Zero(t, r.calls.Load())
	require.Equal(t, "Bearer "+expired, out.Header.Get("Authorization"))
}

func TestAuthenticate_ConcurrentRequestsShareRefresh(t *testing.T) {
	store := newStore(t)
	store.RefreshTokens(mintToken(t, -time.Minute), "refresh-1")
	fresh := mintToken(t, time.Hour)
	r := &refresher{
		tok:  &oauth2.Token{AccessToken: fresh, RefreshToken: "refresh-2"},
		gate: make(chan struct{}),
	}
	a := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now))

	const n = 20
	headers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			headers[i] = a.Authenticate(newRequest(t)).Header.Get("Authorization")
		}(i)
	}

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(r.gate)
	wg.Wait()

	require.EqualValues(t, 1, r.calls.Load())
	for _, h := range headers {
		require.Equal(t, "Bearer "+fresh, h)
	}
}

func TestTransport(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := newStore(t)
	valid := mintToken(t, time.Hour)
	store.RefreshTokens(valid, "refresh-1")
	r := &refresher{}

	client := authenticator.New(store, r.Refresh, authenticator.WithNowFunc(now)).Client(nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer "+valid, seen.Load())
	require.Empty(t, req.Header.Get("Authorization"))
}
