package repository

import "github.com/taskgo/client/domain"

// CredentialStore is the durable key/value boundary for the authentication
// session. It holds no validation logic; token and user are saved and cleared
// together.
type CredentialStore interface {
	// Save persists the session, overwriting any prior value.
	Save(session *domain.Session) error
	// SaveUser caches a user record without a token, as registration does.
	// Load still reports absence until a full session is saved.
	SaveUser(user *domain.User) error
	// Load returns the persisted session, or (nil, nil) when never saved or
	// previously cleared.
	Load() (*domain.Session, error)
	// Clear removes both token and user. Idempotent.
	Clear() error
	Close() error
}
