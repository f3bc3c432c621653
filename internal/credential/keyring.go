// Package credential keeps the session signing secret in the system
// keyring so it does not have to live in the config file.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"

	"github.com/nhle/todolist/internal/model"
)

const serviceName = "todolist"

// SessionSecretKey is the keyring entry holding the session signing secret.
const SessionSecretKey = "session-secret"

// secretBytes is the amount of randomness in a generated secret.
const secretBytes = 32

// Store reads and writes secrets in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open returns a Store over the first available system keyring backend,
// falling back to an encrypted file next to the config file.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(filepath.Dir(model.DefaultConfigPath()), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("todolist-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

// Get retrieves a value by key. A missing key returns "" and no error.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a value by key.
func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       "todolist " + key,
		Description: "todolist session signing secret",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a value by key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// SessionSecret returns the stored session secret, or "" if none is set.
func (s *Store) SessionSecret() (string, error) {
	return s.Get(SessionSecretKey)
}

// RotateSessionSecret generates a new session secret, stores it and
// returns it. Existing sessions stop resolving.
func (s *Store) RotateSessionSecret() (string, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return "", err
	}
	if err := s.Set(SessionSecretKey, secret); err != nil {
		return "", err
	}
	return secret, nil
}

// GenerateSecret returns a random hex-encoded secret.
func GenerateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
