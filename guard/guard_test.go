package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/product-console/guard"
	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/jrsteele09/product-console/session"
)

var screens = []session.ScreenGrant{
	{ScreenURL: "/dashboard", ScreenName: "Dashboard"},
	{ScreenURL: "/products", ScreenName: "Products"},
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		screens       []session.ScreenGrant
		path          string
		want          guard.Decision
	}{
		{name: "granted screen", authenticated: true, screens: screens, path: "/products", want: guard.Decision{Allowed: true}},
		{name: "profile without grant", authenticated: true, screens: nil, path: "/profile", want: guard.Decision{Allowed: true}},
		{name: "ungranted screen", authenticated: true, screens: screens, path: "/admin", want: guard.Decision{Redirect: "/dashboard"}},
		{name: "trailing slash", authenticated: true, screens: screens, path: "/products/", want: guard.Decision{Redirect: "/dashboard"}},
		{name: "case sensitive", authenticated: true, screens: screens, path: "/Products", want: guard.Decision{Redirect: "/dashboard"}},
		{name: "sub path", authenticated: true, screens: screens, path: "/products/1", want: guard.Decision{Redirect: "/dashboard"}},
		{name: "dashboard not granted", authenticated: true, screens: []session.ScreenGrant{{ScreenURL: "/products"}}, path: "/dashboard", want: guard.Decision{Redirect: "/dashboard"}},
		{name: "unauthenticated granted", authenticated: false, screens: screens, path: "/products", want: guard.Decision{Redirect: "/"}},
		{name: "unauthenticated profile", authenticated: false, screens: screens, path: "/profile", want: guard.Decision{Redirect: "/"}},
		{name: "unauthenticated unknown", authenticated: false, path: "/nowhere", want: guard.Decision{Redirect: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, guard.Decide(tt.authenticated, tt.screens, tt.path))
		})
	}
}

type fixedState session.Session

func (f fixedState) Snapshot() session.Session { return session.Session(f) }

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuard_Middleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	g := guard.New(fixedState{IsAuthenticated: true, AccessToken: "a", PermittedScreens: screens}, guard.WithMetrics(m))
	h := g.Middleware(ok())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products?page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.Guard.WithLabelValues(metrics.OutcomeAllowed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Guard.WithLabelValues(metrics.OutcomeDenied)))
}

func TestGuard_MiddlewareUnauthenticated(t *testing.T) {
	g := guard.New(fixedState{PermittedScreens: screens})
	rec := httptest.NewRecorder()
	g.Middleware(ok()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGuard_RequireScreen(t *testing.T) {
	g := guard.New(fixedState{IsAuthenticated: true, AccessToken: "a", PermittedScreens: screens})

	rec := httptest.NewRecorder()
	g.RequireScreen("/products")(ok()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/3/reviews", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	g.RequireScreen("/orders")(ok()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/3", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}
