// Package bolt persists the authentication session in a local BoltDB file,
// the client-side stand-in for the mobile platform's durable key/value store.
package bolt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskgo/client/domain"
)

var (
	keyToken = []byte("token")
	keyUser  = []byte("user")
)

// CredentialRepository implements repository.CredentialStore over bbolt.
type CredentialRepository struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*CredentialRepository, error) {
	if bucket == "" {
		bucket = "credentials"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &CredentialRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Save writes token and user in a single transaction so the pair can never be
// observed half-set.
func (r *CredentialRepository) Save(session *domain.Session) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if !session.Valid() {
		return domain.NewError(domain.ErrCodeInternal, "refusing to persist incomplete session")
	}
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if err := b.Put(keyToken, []byte(session.Token)); err != nil {
			return err
		}
		return b.Put(keyUser, userJSON)
	})
}

// SaveUser caches the user record alone. Registration stores the created user
// this way; without a token alongside it, Load keeps reporting absence.
func (r *CredentialRepository) SaveUser(user *domain.User) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.bucket).Put(keyUser, userJSON)
	})
}

// Load returns the persisted session. A record with either half missing is
// treated as absent, preserving the token-and-user-together invariant.
func (r *CredentialRepository) Load() (*domain.Session, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var session *domain.Session
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		token := b.Get(keyToken)
		userJSON := b.Get(keyUser)
		if len(token) == 0 || len(userJSON) == 0 {
			return nil
		}
		var user domain.User
		if err := json.Unmarshal(userJSON, &user); err != nil {
			return err
		}
		session = &domain.Session{Token: string(token), User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, nil
	}
	return session, nil
}

// Clear removes both keys in one transaction. Safe to call repeatedly.
func (r *CredentialRepository) Clear() error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if err := b.Delete(keyToken); err != nil {
			return err
		}
		return b.Delete(keyUser)
	})
}

// Close closes the Bolt database.
func (r *CredentialRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
