// Package authgate implements the decision core of an OAuth2
// authorization endpoint: given one inbound authorization request it
// resolves the authentication method, the requested scope and the
// grant flow, and produces exactly one outcome: a rendered consent
// form, a code or token redirect, a step-up challenge redirect, or an
// error.
package authgate

import (
	"context"
	"io"
)

type (
	// ClientInfo the registered client record
	ClientInfo interface {
		// GetID the public client identifier
		GetID() string
		// GetSecret the client secret
		GetSecret() string
		// GetKey the internal client identifier used by the
		// password/implicit grant
		GetKey() string
		// GetName the display name shown on the consent form
		GetName() string
		// GetDomain the allow-listed redirect domain
		GetDomain() string
		// GetScope the scope the client may request, empty means any
		GetScope() Scope
	}

	// UserInfo the resource owner record
	UserInfo interface {
		GetID() string
		GetUsername() string
		GetName() string
		GetPasswordHash() string
	}

	// SecondFactorInfo one enrolled second factor
	SecondFactorInfo interface {
		GetType() string
		GetSecret() string
	}

	// ClientStore the client registry
	ClientStore interface {
		// GetByID looks a client up by its public identifier
		GetByID(ctx context.Context, id string) (ClientInfo, error)
		// GetByKey looks a client up by its internal identifier
		GetByKey(ctx context.Context, key string) (ClientInfo, error)
	}

	// UserStore the resource owner registry
	UserStore interface {
		GetByID(ctx context.Context, id string) (UserInfo, error)
		GetByUsername(ctx context.Context, username string) (UserInfo, error)
		// SecondFactors lists the owner's enrolled second factors;
		// an empty list means no step-up is required
		SecondFactors(ctx context.Context, ownerID string) ([]SecondFactorInfo, error)
	}

	// AuthorizationStore persists accepted authorizations and issued
	// codes until they are consumed
	AuthorizationStore interface {
		Save(ctx context.Context, auth *Authorization) error
		// Take returns and removes a pending authorization
		Take(ctx context.Context, id string) (*Authorization, error)
		SaveCode(ctx context.Context, code string, auth *Authorization) error
		// TakeCode returns and removes the authorization bound to a code
		TakeCode(ctx context.Context, code string) (*Authorization, error)
	}

	// TokenVerifier verifies a bearer token presented on the
	// Authorization header
	TokenVerifier interface {
		Verify(ctx context.Context, token string) (*BearerContext, error)
	}

	// GrantAuthorizer authorizes and issues grants. Authorize is called
	// once per request and, only on success, exactly one Issue call
	// follows; the core never retries.
	GrantAuthorizer interface {
		AuthorizeCode(ctx context.Context, identity Identity, clientID, redirectURI string, scope Scope) (*Authorization, error)
		AuthorizePassword(ctx context.Context, identity Identity, clientKey, redirectURI string, scope Scope) (*Authorization, error)
		IssueCode(ctx context.Context, auth *Authorization) (string, error)
		IssueToken(ctx context.Context, auth *Authorization) (*TokenGrant, error)
	}

	// ScopeDescriber resolves display descriptions for form rendering
	ScopeDescriber interface {
		Describe(scope Scope) []ScopeDescription
	}

	// Renderer turns form parameters into a response body
	Renderer interface {
		RenderForm(w io.Writer, params FormParams) error
	}
)
