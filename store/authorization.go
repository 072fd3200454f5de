package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/authgate/authgate"
)

// ErrAuthorizationNotFound indicates the pending authorization or code
// is unknown or expired.
var ErrAuthorizationNotFound = errors.New("authorization not found")

// DefaultAuthorizationTTL bounds how long a pending authorization may
// wait for a step-up challenge before it is discarded.
const DefaultAuthorizationTTL = 10 * time.Minute

// DefaultCodeTTL is the lifetime of an issued authorization code.
const DefaultCodeTTL = 5 * time.Minute

// NewMemoryAuthorizationStore creates an in-process authorization store.
func NewMemoryAuthorizationStore() (*AuthorizationStore, error) {
	return NewFileAuthorizationStore(":memory:")
}

// NewFileAuthorizationStore creates an authorization store persisted to
// a buntdb file.
func NewFileAuthorizationStore(filename string) (*AuthorizationStore, error) {
	db, err := buntdb.Open(filename)
	if err != nil {
		return nil, err
	}
	return &AuthorizationStore{
		db:      db,
		authTTL: DefaultAuthorizationTTL,
		codeTTL: DefaultCodeTTL,
	}, nil
}

// AuthorizationStore holds accepted-but-unissued authorizations and
// issued codes, each bounded by a TTL.
type AuthorizationStore struct {
	db      *buntdb.DB
	authTTL time.Duration
	codeTTL time.Duration
}

// SetTTL overrides the pending authorization and code lifetimes.
func (s *AuthorizationStore) SetTTL(authTTL, codeTTL time.Duration) {
	if authTTL > 0 {
		s.authTTL = authTTL
	}
	if codeTTL > 0 {
		s.codeTTL = codeTTL
	}
}

// Close releases the underlying database.
func (s *AuthorizationStore) Close() error {
	return s.db.Close()
}

func (s *AuthorizationStore) put(key string, auth *authgate.Authorization, ttl time.Duration) error {
	jv, err := json.Marshal(auth)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		opts := &buntdb.SetOptions{Expires: true, TTL: ttl}
		_, _, err := tx.Set(key, string(jv), opts)
		return err
	})
}

func (s *AuthorizationStore) take(key string) (*authgate.Authorization, error) {
	var jv string
	err := s.db.Update(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		jv = v
		_, err = tx.Delete(key)
		return err
	})
	if err != nil {
		if err == buntdb.ErrNotFound {
			return nil, ErrAuthorizationNotFound
		}
		return nil, err
	}

	var auth authgate.Authorization
	if err := json.Unmarshal([]byte(jv), &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Save stores a pending authorization under its identifier.
func (s *AuthorizationStore) Save(ctx context.Context, auth *authgate.Authorization) error {
	return s.put("auth:"+auth.ID, auth, s.authTTL)
}

// Take returns and removes a pending authorization.
func (s *AuthorizationStore) Take(ctx context.Context, id string) (*authgate.Authorization, error) {
	return s.take("auth:" + id)
}

// SaveCode binds an issued code to its authorization.
func (s *AuthorizationStore) SaveCode(ctx context.Context, code string, auth *authgate.Authorization) error {
	return s.put("code:"+code, auth, s.codeTTL)
}

// TakeCode returns and removes the authorization bound to a code.
// Codes are single-use.
func (s *AuthorizationStore) TakeCode(ctx context.Context, code string) (*authgate.Authorization, error) {
	return s.take("code:" + code)
}
