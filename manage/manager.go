package manage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
	"github.com/authgate/authgate/generates"
)

// Config authorization and token lifetimes
type Config struct {
	// AuthorizationExp bounds how long an accepted authorization may
	// stay pending (e.g. waiting on a step-up challenge)
	AuthorizationExp time.Duration
	// CodeExp lifetime of an issued authorization code
	CodeExp time.Duration
	// AccessTokenExp lifetime of an issued access token
	AccessTokenExp time.Duration
}

// DefaultConfig default lifetimes
var DefaultConfig = &Config{
	AuthorizationExp: 10 * time.Minute,
	CodeExp:          5 * time.Minute,
	AccessTokenExp:   2 * time.Hour,
}

// AccessGenerate signs access tokens for authorized grants
type AccessGenerate interface {
	Token(ctx context.Context, auth *authgate.Authorization, expiresIn time.Duration) (string, error)
}

// CodeGenerate produces authorization codes
type CodeGenerate interface {
	Code(ctx context.Context, auth *authgate.Authorization) (string, error)
}

// NewDefaultManager create to default authorization management instance
func NewDefaultManager() *Manager {
	m := NewManager()
	m.MapAuthorizeGenerate(generates.NewAuthorizeGenerate())
	return m
}

// NewManager create to authorization management instance
func NewManager() *Manager {
	return &Manager{
		cfg:       DefaultConfig,
		tokenType: "Bearer",
	}
}

// Manager provide authorization management, implementing
// authgate.GrantAuthorizer against pluggable stores.
type Manager struct {
	cfg            *Config
	tokenType      string
	clients        authgate.ClientStore
	users          authgate.UserStore
	authorizations authgate.AuthorizationStore
	authorizeGen   CodeGenerate
	accessGen      AccessGenerate
}

// SetConfig overrides the default lifetimes
func (m *Manager) SetConfig(cfg *Config) {
	m.cfg = cfg
}

// SetTokenType overrides the issued token type
func (m *Manager) SetTokenType(tokenType string) {
	m.tokenType = tokenType
}

// MapClientStorage mapping the client store interface
func (m *Manager) MapClientStorage(stor authgate.ClientStore) {
	m.clients = stor
}

// MapUserStorage mapping the user store interface
func (m *Manager) MapUserStorage(stor authgate.UserStore) {
	m.users = stor
}

// MapAuthorizationStorage mapping the authorization store interface
func (m *Manager) MapAuthorizationStorage(stor authgate.AuthorizationStore) {
	m.authorizations = stor
}

// MustAuthorizationStorage mandatory mapping the authorization store interface
func (m *Manager) MustAuthorizationStorage(stor authgate.AuthorizationStore, err error) {
	if err != nil {
		panic(err)
	}
	m.authorizations = stor
}

// MapAuthorizeGenerate mapping the authorize code generate interface
func (m *Manager) MapAuthorizeGenerate(gen CodeGenerate) {
	m.authorizeGen = gen
}

// MapAccessGenerate mapping the access token generate interface
func (m *Manager) MapAccessGenerate(gen AccessGenerate) {
	m.accessGen = gen
}

// redirectAllowed enforces the client's registered domain: the
// redirect URI must equal the domain or live under it.
func redirectAllowed(cli authgate.ClientInfo, redirectURI string) bool {
	d := cli.GetDomain()
	if d == "" || redirectURI == "" {
		return true
	}
	if redirectURI == d {
		return true
	}
	base := d
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return len(redirectURI) > len(base)+1 && redirectURI[:len(base)+1] == base+"/"
}

// resolveOwner turns the resolved identity into a verified resource
// owner, checking credentials against the user registry when needed.
func (m *Manager) resolveOwner(ctx context.Context, identity authgate.Identity) (authgate.UserInfo, error) {
	switch id := identity.(type) {
	case authgate.OwnerIdentity:
		u, err := m.users.GetByID(ctx, id.OwnerID)
		if err != nil {
			return nil, errors.ErrAccessDenied
		}
		return u, nil
	case authgate.CredentialIdentity:
		u, err := m.users.GetByUsername(ctx, id.Username)
		if err != nil {
			return nil, errors.ErrAccessDenied
		}
		if bcrypt.CompareHashAndPassword([]byte(u.GetPasswordHash()), []byte(id.Password)) != nil {
			return nil, errors.ErrAccessDenied
		}
		return u, nil
	default:
		return nil, errors.ErrAccessDenied
	}
}

func (m *Manager) authorize(ctx context.Context, flow authgate.ResponseType, identity authgate.Identity, cli authgate.ClientInfo, redirectURI string, scope authgate.Scope) (*authgate.Authorization, error) {
	if !redirectAllowed(cli, redirectURI) {
		return nil, errors.ErrUnauthorizedClient
	}

	owner, err := m.resolveOwner(ctx, identity)
	if err != nil {
		return nil, err
	}

	if allowed := cli.GetScope(); len(allowed) > 0 && !scope.IsSubsetOf(allowed) {
		return nil, errors.ErrInvalidScope
	}

	if redirectURI == "" {
		redirectURI = cli.GetDomain()
	}

	now := time.Now()
	auth := &authgate.Authorization{
		ID:          uuid.Must(uuid.NewRandom()).String(),
		Flow:        flow,
		OwnerID:     owner.GetID(),
		ClientID:    cli.GetID(),
		ClientKey:   cli.GetKey(),
		RedirectURI: redirectURI,
		Scope:       scope,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.cfg.AuthorizationExp),
	}
	if err := m.authorizations.Save(ctx, auth); err != nil {
		return nil, errors.ErrServerError
	}
	return auth, nil
}

// AuthorizeCode accepts an authorization-code grant for the identity,
// client and redirect URI, without issuing the code yet.
func (m *Manager) AuthorizeCode(ctx context.Context, identity authgate.Identity, clientID, redirectURI string, scope authgate.Scope) (*authgate.Authorization, error) {
	cli, err := m.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, errors.ErrUnauthorizedClient
	}
	return m.authorize(ctx, authgate.Code, identity, cli, redirectURI, scope)
}

// AuthorizePassword accepts a password/implicit grant for the identity
// and the client named by its internal identifier.
func (m *Manager) AuthorizePassword(ctx context.Context, identity authgate.Identity, clientKey, redirectURI string, scope authgate.Scope) (*authgate.Authorization, error) {
	cli, err := m.clients.GetByKey(ctx, clientKey)
	if err != nil {
		return nil, errors.ErrUnauthorizedClient
	}
	return m.authorize(ctx, authgate.Token, identity, cli, redirectURI, scope)
}

// IssueCode turns an accepted authorization into a single-use code.
func (m *Manager) IssueCode(ctx context.Context, auth *authgate.Authorization) (string, error) {
	code, err := m.authorizeGen.Code(ctx, auth)
	if err != nil {
		return "", errors.ErrServerError
	}
	if err := m.authorizations.SaveCode(ctx, code, auth); err != nil {
		return "", errors.ErrServerError
	}
	return code, nil
}

// IssueToken turns an accepted authorization into an access token.
func (m *Manager) IssueToken(ctx context.Context, auth *authgate.Authorization) (*authgate.TokenGrant, error) {
	if m.accessGen == nil {
		return nil, errors.ErrServerError
	}
	access, err := m.accessGen.Token(ctx, auth, m.cfg.AccessTokenExp)
	if err != nil {
		return nil, errors.ErrServerError
	}
	return &authgate.TokenGrant{
		AccessToken:  access,
		TokenType:    m.tokenType,
		ExpiresIn:    int64(m.cfg.AccessTokenExp / time.Second),
		GrantedScope: auth.Scope,
	}, nil
}

// TakeAuthorization resumes a pending authorization, e.g. after a
// completed step-up challenge. The authorization is consumed.
func (m *Manager) TakeAuthorization(ctx context.Context, id string) (*authgate.Authorization, error) {
	auth, err := m.authorizations.Take(ctx, id)
	if err != nil {
		return nil, errors.ErrInvalidGrant
	}
	if time.Now().After(auth.ExpiresAt) {
		return nil, errors.ErrInvalidGrant
	}
	return auth, nil
}

// ExchangeCode redeems an authorization code for an access token on
// behalf of an authenticated client.
func (m *Manager) ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*authgate.TokenGrant, error) {
	cli, err := m.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, errors.ErrInvalidClient
	}
	if cli.GetSecret() != clientSecret {
		return nil, errors.ErrInvalidClient
	}

	auth, err := m.authorizations.TakeCode(ctx, code)
	if err != nil {
		return nil, errors.ErrInvalidGrant
	}
	if auth.ClientID != clientID {
		return nil, errors.ErrInvalidGrant
	}
	if auth.RedirectURI != "" && redirectURI != "" && auth.RedirectURI != redirectURI {
		return nil, errors.ErrInvalidGrant
	}
	return m.IssueToken(ctx, auth)
}
