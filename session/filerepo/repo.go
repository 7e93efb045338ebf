// Package filerepo persists the console session as JSON on the local filesystem.
package filerepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
)

var _ session.Repo = (*Repo)(nil)

// document is the on-disk layout: the session lives under a single namespaced key.
type document map[string]json.RawMessage

// Repo stores the session in one JSON file.
type Repo struct {
	path string
	key  string
}

// New creates a file repo. An empty path uses ~/.product-console/session.json.
func New(path, key string) (*Repo, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".product-console", "session.json")
	}
	if key == "" {
		return nil, fmt.Errorf("filerepo.New: persist key is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("path", path).Str("key", key).Msg("session file repo initialized")
	return &Repo{path: path, key: key}, nil
}

func (r *Repo) Path() string {
	return r.path
}

func (r *Repo) Load(_ context.Context) (*session.Session, error) {
	doc, err := r.readDocument()
	if err != nil {
		return nil, err
	}

	raw, ok := doc[r.key]
	if !ok {
		return nil, consoleerrors.ErrSessionNotFound
	}

	var s session.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %q: %w", r.key, err)
	}
	return &s, nil
}

func (r *Repo) Save(_ context.Context, s session.Session) error {
	doc, err := r.readDocument()
	if err != nil && !consoleerrors.Is(err, consoleerrors.ErrSessionNotFound) {
		return err
	}
	if doc == nil {
		doc = document{}
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	doc[r.key] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	// Write to a sibling file and rename so a crash never leaves half a session behind.
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (r *Repo) readDocument() (document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, consoleerrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return doc, nil
}
