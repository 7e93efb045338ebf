package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

const tokenLength = 32 // bytes

// Manager handles refresh token creation, validation, and rotation
type Manager struct {
	repo    Repo
	expiry  time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// NewManager creates a new refresh token manager. Tokens live for expiry.
func NewManager(repo Repo, expiry time.Duration, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		expiry:  expiry,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.expiry <= 0 {
		m.expiry = 7 * 24 * time.Hour
	}
	return m
}

// Create issues a new refresh token, replacing any the user already holds.
func (m *Manager) Create(userID string, ttlMinutes int) (*StoredRefreshToken, error) {
	if existing, err := m.repo.GetByUserID(userID); err == nil && existing != nil {
		if err := m.repo.Delete(existing.Token); err != nil {
			return nil, fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rt := &StoredRefreshToken{
		Token:      hex.EncodeToString(tokenBytes),
		UserID:     userID,
		TTLMinutes: ttlMinutes,
		Iat:        m.nowFunc(),
	}
	if err := m.repo.Upsert(rt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rt, nil
}

// Rotate exchanges a valid refresh token for a new one. The old token stops working.
func (m *Manager) Rotate(token string) (*StoredRefreshToken, error) {
	rt, err := m.repo.Get(token)
	if err != nil {
		return nil, consoleerrors.Wrapf(consoleerrors.ErrInvalidRefreshToken, "Manager.Rotate %v", err)
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, consoleerrors.ErrInvalidRefreshToken
	}
	return m.Create(rt.UserID, rt.TTLMinutes)
}

// Revoke removes every refresh token held by the user.
func (m *Manager) Revoke(userID string) error {
	rt, err := m.repo.GetByUserID(userID)
	if err != nil || rt == nil {
		return nil
	}
	return m.repo.Delete(rt.Token)
}

// IsExpired checks if a refresh token has outlived the manager's expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return m.nowFunc().Sub(rt.Iat) > m.expiry
}
