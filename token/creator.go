package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

// Signer signs and verifies console access tokens
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	GetVerificationKey(token *jwt.Token) (any, error)
	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner implements Signer using symmetric HMAC-SHA256
type HMACsigner struct {
	secret []byte
}

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret string) *HMACsigner {
	return &HMACsigner{
		secret: []byte(secret),
	}
}

func (h *HMACsigner) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signed, nil
}

func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}

// Creator issues and verifies access tokens for the mock backend and tests.
type Creator struct {
	signer  Signer
	issuer  string
	nowFunc func() time.Time
}

type CreatorOption func(*Creator)

func WithNowFunc(now func() time.Time) CreatorOption {
	return func(c *Creator) {
		c.nowFunc = now
	}
}

func WithIssuer(issuer string) CreatorOption {
	return func(c *Creator) {
		c.issuer = issuer
	}
}

func NewCreator(signer Signer, options ...CreatorOption) *Creator {
	c := &Creator{
		signer:  signer,
		issuer:  "product-console",
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CreateAccessToken signs a token for the user that expires after ttl.
func (c *Creator) CreateAccessToken(userID, username string, userType int, ttl time.Duration) (string, error) {
	now := c.nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
		Username: username,
		UserType: userType,
	}
	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("Creator.CreateAccessToken: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of rawToken and returns its claims.
func (c *Creator) Verify(rawToken string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, c.signer.GetVerificationKey,
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errors.Wrap(consoleerrors.ErrTokenExpired, "Creator.Verify")
	}
	if err != nil {
		return nil, errors.Wrapf(consoleerrors.ErrInvalidToken, "Creator.Verify: %v", err)
	}
	if !parsed.Valid {
		return nil, errors.New("Creator.Verify: token not valid")
	}
	return claims, nil
}
