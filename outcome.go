package authgate

import "time"

// Authorization is an accepted-but-not-yet-issued grant. It is created
// by the grant authorizer, persisted while a step-up challenge is
// pending, and consumed exactly once by code or token issuance.
type Authorization struct {
	ID          string       `json:"id"`
	Flow        ResponseType `json:"flow"`
	OwnerID     string       `json:"owner_id"`
	ClientID    string       `json:"client_id"`
	ClientKey   string       `json:"client_key,omitempty"`
	RedirectURI string       `json:"redirect_uri"`
	Scope       Scope        `json:"scope"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// TokenGrant is the payload of a direct token issuance.
type TokenGrant struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    int64
	GrantedScope Scope
}

// ScopeDescription is a display entry for one scope token.
type ScopeDescription struct {
	Scope       string
	Description string
}

// FormParams are the values the renderer needs to build the
// consent/login form.
type FormParams struct {
	ClientID          string
	ClientName        string
	RedirectURI       string
	ResponseType      ResponseType
	Scope             Scope
	ScopeDescriptions []ScopeDescription
	OwnerName         string
	State             string
	FormTargetURL     string
}

// Outcome is the single terminal result of one authorization request.
// Outcome selection is total: every request resolves to exactly one
// variant.
type Outcome interface {
	outcome()
}

// RenderForm renders the consent/login form.
type RenderForm struct {
	Params FormParams
}

// RedirectCode redirects back to the client with an authorization code.
type RedirectCode struct {
	RedirectURI string
	Code        string
	State       string
}

// RedirectToken redirects back to the client with an access token in
// the fragment.
type RedirectToken struct {
	RedirectURI string
	Grant       *TokenGrant
	State       string
}

// RedirectStepUp interrupts issuance and sends the browser to the
// step-up challenge with enough context to resume.
type RedirectStepUp struct {
	Flow          ResponseType
	OwnerID       string
	Authorization *Authorization
	State         string
	RedirectURI   string
	StepUpURL     string
}

// RedirectError reports an error on the client's redirect URI.
type RedirectError struct {
	RedirectURI string
	Flow        ResponseType
	Err         error
	State       string
}

// InlineError reports an error directly in the response body. It is
// used exactly when no trusted redirect target exists.
type InlineError struct {
	Err error
}

func (RenderForm) outcome()     {}
func (RedirectCode) outcome()   {}
func (RedirectToken) outcome()  {}
func (RedirectStepUp) outcome() {}
func (RedirectError) outcome()  {}
func (InlineError) outcome()    {}
