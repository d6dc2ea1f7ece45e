package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"twistory/pkg/logger"
)

const (
	keyringService = "twistory"
	keyringPrefix  = "twitter_"
)

// KeyringStore mirrors a CredentialStore into the system keychain. Reads
// prefer the backing store and fall back to the keychain; writes go to
// both.
type KeyringStore struct {
	backing CredentialStore
	logger  logger.Logger
}

// NewKeyringStore wraps backing with a keychain mirror
func NewKeyringStore(backing CredentialStore, log logger.Logger) (*KeyringStore, error) {
	// Test if keyring is available
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	if log == nil {
		log = logger.NewNopLogger()
	}
	return &KeyringStore{backing: backing, logger: log}, nil
}

// App returns the application pair from the backing store
func (k *KeyringStore) App() (Pair, error) {
	return k.backing.App()
}

// Retrieve gets the access pair from the backing store or the keychain
func (k *KeyringStore) Retrieve(username string) (Pair, error) {
	if p, err := k.backing.Retrieve(username); err == nil {
		return p, nil
	}

	data, err := keyring.Get(keyringService, keyringPrefix+username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Pair{}, ErrCredentialsNotFound
		}
		return Pair{}, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var p Pair
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Pair{}, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	if !p.Complete() {
		return Pair{}, ErrCredentialsNotFound
	}

	k.logger.WithField("user", username).Debug("Using credentials from system keychain")
	return p, nil
}

// Store saves the pair in the backing store and the keychain. A keychain
// failure is logged but does not fail the call.
func (k *KeyringStore) Store(username string, pair Pair) error {
	if err := k.backing.Store(username, pair); err != nil {
		return err
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := keyring.Set(keyringService, keyringPrefix+username, string(data)); err != nil {
		k.logger.WithError(err).Warn("Failed to mirror credentials into system keychain")
	}
	return nil
}

// Delete removes a user's keychain entry
func (k *KeyringStore) Delete(username string) error {
	err := keyring.Delete(keyringService, keyringPrefix+username)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrCredentialsNotFound
	}
	return err
}
