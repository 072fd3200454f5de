package authgate

import "net/url"

// Endpoints carries the two URLs the authorization endpoint hands out:
// where the consent form posts back, and where a step-up challenge
// lives. An empty StepUpURL disables step-up redirects entirely.
type Endpoints struct {
	FormTargetURL string
	StepUpURL     string
}

// AuthorizationRequest is the request-scoped value threaded through the
// decision pipeline. It is built once by the normalizer and enriched by
// the authentication resolver; no later stage rewrites an earlier
// stage's fields.
type AuthorizationRequest struct {
	Method          string
	ResponseType    ResponseType
	ClientID        string
	RedirectURI     string
	RawScope        string
	State           string
	Username        string
	Password        string
	ResourceOwnerID string
	BearerToken     string
	Endpoints       Endpoints
}

// NewAuthorizationRequest normalizes raw query/form parameters into an
// AuthorizationRequest. Absent parameters stay empty; this stage never
// fails and defers all reporting to the dispatcher.
func NewAuthorizationRequest(method string, params url.Values, endpoints Endpoints) *AuthorizationRequest {
	return &AuthorizationRequest{
		Method:       method,
		ResponseType: ParseResponseType(params.Get("response_type")),
		ClientID:     params.Get("client_id"),
		RedirectURI:  params.Get("redirect_uri"),
		RawScope:     params.Get("scope"),
		State:        params.Get("state"),
		Username:     params.Get("username"),
		Password:     params.Get("password"),
		Endpoints:    endpoints,
	}
}

// AuthMethod is the authentication method resolved from the
// Authorization header and body credentials. Exactly one variant
// applies per request.
type AuthMethod interface {
	authMethod()
}

// NoAuth means no credentials were supplied at all.
type NoAuth struct{}

// BasicCredentials are username/password taken from a Basic
// Authorization header. They take precedence over body credentials.
type BasicCredentials struct {
	Username string
	Password string
}

// BearerToken is an opaque or JWT credential from a Bearer
// Authorization header.
type BearerToken struct {
	Token string
}

// FormCredentials are username/password posted in the request body,
// used only when the header carries no credentials.
type FormCredentials struct {
	Username string
	Password string
}

func (NoAuth) authMethod()           {}
func (BasicCredentials) authMethod() {}
func (BearerToken) authMethod()      {}
func (FormCredentials) authMethod()  {}

// Identity is the resolved identity handed to the grant authorizer:
// either an already-verified resource owner identifier, or a
// credential pair still to be verified.
type Identity interface {
	identity()
}

// OwnerIdentity is a resource owner already authenticated upstream
// (e.g. by a verified bearer token).
type OwnerIdentity struct {
	OwnerID string
}

// CredentialIdentity is a username/password pair the authorizer must
// verify against the user registry.
type CredentialIdentity struct {
	Username string
	Password string
}

func (OwnerIdentity) identity()      {}
func (CredentialIdentity) identity() {}

// BearerContext is the result of verifying a bearer token. OwnerID may
// be empty when the token is valid but carries no resource owner.
type BearerContext struct {
	OwnerID  string
	ClientID string
	Scope    Scope
}
