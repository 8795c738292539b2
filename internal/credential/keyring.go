package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "todoboard"

// sessionKey is the keyring entry holding the API session token.
const sessionKey = "session_token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todoboard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todoboard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SessionToken retrieves the saved API session token from the system
// keyring. Returns an error when no session is saved.
func SessionToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(sessionKey)
	if err != nil {
		return "", fmt.Errorf("getting session token: %w", err)
	}

	return string(item.Data), nil
}

// SaveSessionToken stores the API session token in the system keyring.
func SaveSessionToken(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  sessionKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}

	return nil
}

// ClearSessionToken removes the saved session token from the system
// keyring.
func ClearSessionToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(sessionKey); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}

	return nil
}
