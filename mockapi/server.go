// Package mockapi is an in-memory implementation of every backend endpoint
// the console consumes. It backs local development and the tests.
package mockapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/product-console/token"
	"github.com/jrsteele09/product-console/token/refresh"
	refreshrepofake "github.com/jrsteele09/product-console/token/refresh/repofake"
	"github.com/jrsteele09/product-console/users"
	fakeuserrepo "github.com/jrsteele09/product-console/users/repofake"
)

// OTPSender delivers a one-time code to a user.
type OTPSender func(email, code string)

type Server struct {
	router  chi.Router
	users   users.UserRepo
	creator *token.Creator
	refresh *refresh.Manager
	catalog *Catalog
	otps    *otpStore
	sendOTP OTPSender
	nowFunc func() time.Time
	logger  zerolog.Logger
}

type options struct {
	secret        string
	refreshExpiry time.Duration
	nowFunc       func() time.Time
	sendOTP       OTPSender
	logger        zerolog.Logger
	users         users.UserRepo
	seedUsers     bool
}

type Option func(*options)

// WithSigningSecret sets the HMAC secret access tokens are signed with.
func WithSigningSecret(secret string) Option {
	return func(o *options) {
		o.secret = secret
	}
}

// WithRefreshExpiry sets how long a refresh token stays usable.
func WithRefreshExpiry(d time.Duration) Option {
	return func(o *options) {
		o.refreshExpiry = d
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(o *options) {
		o.nowFunc = now
	}
}

// WithOTPSender replaces the default sender, which only logs the code.
func WithOTPSender(send OTPSender) Option {
	return func(o *options) {
		o.sendOTP = send
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUsers serves repo instead of the built-in demo accounts.
func WithUsers(repo users.UserRepo) Option {
	return func(o *options) {
		o.users = repo
		o.seedUsers = false
	}
}

func New(opts ...Option) (*Server, error) {
	o := &options{
		secret:    "dev-secret-change-me",
		nowFunc:   time.Now,
		logger:    log.Logger,
		seedUsers: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.users == nil {
		o.users = fakeuserrepo.NewFakeUserRepo()
	}
	if o.seedUsers {
		if err := SeedUsers(o.users, o.nowFunc()); err != nil {
			return nil, fmt.Errorf("[mockapi New] failed to seed users: %w", err)
		}
	}
	if o.sendOTP == nil {
		logger := o.logger
		o.sendOTP = func(email, code string) {
			logger.Info().Str("email", email).Str("otp", code).Msg("otp issued")
		}
	}

	s := &Server{
		users:   o.users,
		creator: token.NewCreator(token.NewHMACSigner(o.secret), token.WithNowFunc(o.nowFunc), token.WithIssuer("product-console-mock")),
		refresh: refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), o.refreshExpiry, refresh.WithNowFunc(o.nowFunc)),
		catalog: NewCatalog(),
		otps:    newOTPStore(o.nowFunc),
		sendOTP: o.sendOTP,
		nowFunc: o.nowFunc,
		logger:  o.logger,
	}
	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post(RouteAuthLogin, s.LoginHandler())
	r.Post(RouteAuthRefresh, s.RefreshHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)

		r.Get(RouteProductCount, cacheable(s.ProductCountHandler()))
		r.Get(RouteProductSalesUnit, cacheable(s.SalesUnitHandler()))
		r.Get(RouteProductRevenue, cacheable(s.RevenueHandler()))
		r.Get(RouteUnitSold, cacheable(s.UnitSoldHandler()))
		r.Get(RouteProducts, cacheable(s.ProductsHandler()))
		r.Post(RouteReview, s.ReviewHandler())

		r.Post(RouteGenerateOTP, s.GenerateOTPHandler())
		r.Post(RouteVerifyOTP, s.VerifyOTPHandler())
		r.Post(RouteEditProfile, s.EditProfileHandler())
		r.Post(RouteChangePassword, s.ChangePasswordHandler())
	})

	s.router = r
}
