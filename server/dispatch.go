package server

import (
	"context"
	"net/http"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
)

// HandleAuthorizeRequest runs an authorization request through the full
// pipeline and writes exactly one outcome to w.
func (s *Server) HandleAuthorizeRequest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if r.Form == nil {
		if err := r.ParseForm(); err != nil {
			return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrInvalidRequest})
		}
	}
	req := authgate.NewAuthorizationRequest(r.Method, r.Form, s.Config.Endpoints)

	method := ResolveAuthMethod(r, req)
	if outcome := s.authenticate(ctx, method, req); outcome != nil {
		return s.WriteOutcome(w, outcome)
	}

	scope := authgate.ParseScope(req.RawScope)
	return s.WriteOutcome(w, s.dispatch(ctx, req, scope))
}

// dispatch picks the single outcome for a normalized, authenticated request.
func (s *Server) dispatch(ctx context.Context, req *authgate.AuthorizationRequest, scope authgate.Scope) authgate.Outcome {
	// Every GET renders the consent form, whatever else the query carries.
	if req.Method == http.MethodGet {
		return s.formOutcome(ctx, req, scope)
	}

	switch {
	case req.ClientID != "" && req.ResourceOwnerID != "":
		return s.issue(ctx, req, authgate.OwnerIdentity{OwnerID: req.ResourceOwnerID}, scope)
	case req.ClientID != "" && req.Username != "" && req.Password != "":
		return s.issue(ctx, req, authgate.CredentialIdentity{Username: req.Username, Password: req.Password}, scope)
	default:
		return authgate.RedirectError{
			RedirectURI: req.RedirectURI,
			Flow:        req.ResponseType,
			Err:         errors.ErrInvalidRequest,
			State:       req.State,
		}
	}
}

func (s *Server) issue(ctx context.Context, req *authgate.AuthorizationRequest, identity authgate.Identity, scope authgate.Scope) authgate.Outcome {
	switch req.ResponseType {
	case authgate.Code, authgate.Token:
		if !s.Config.CheckResponseType(req.ResponseType) {
			return authgate.InlineError{Err: errors.ErrUnsupportedResponseType}
		}
	default:
		return authgate.InlineError{Err: errors.ErrUnsupportedResponseType}
	}

	if req.ResponseType == authgate.Code {
		return s.issueCode(ctx, req, identity, scope)
	}
	return s.issueToken(ctx, req, identity, scope)
}

func (s *Server) issueCode(ctx context.Context, req *authgate.AuthorizationRequest, identity authgate.Identity, scope authgate.Scope) authgate.Outcome {
	auth, err := s.Manager.AuthorizeCode(ctx, identity, req.ClientID, req.RedirectURI, scope)
	if err != nil {
		// An unregistered client means the redirect target cannot be
		// trusted, so this one error stays inline.
		if errors.Is(err, errors.ErrUnauthorizedClient) {
			return authgate.InlineError{Err: err}
		}
		return authgate.RedirectError{RedirectURI: req.RedirectURI, Flow: authgate.Code, Err: err, State: req.State}
	}

	if outcome, pending := s.stepUp(ctx, authgate.Code, auth, req); pending {
		return outcome
	}

	code, err := s.Manager.IssueCode(ctx, auth)
	if err != nil {
		return authgate.RedirectError{RedirectURI: auth.RedirectURI, Flow: authgate.Code, Err: errors.ErrServerError, State: req.State}
	}
	return authgate.RedirectCode{RedirectURI: auth.RedirectURI, Code: code, State: req.State}
}

func (s *Server) issueToken(ctx context.Context, req *authgate.AuthorizationRequest, identity authgate.Identity, scope authgate.Scope) authgate.Outcome {
	if s.clients == nil {
		return authgate.InlineError{Err: errors.ErrServerError}
	}
	cli, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return authgate.InlineError{Err: errors.ErrUnauthorizedClient}
	}

	auth, err := s.Manager.AuthorizePassword(ctx, identity, cli.GetKey(), req.RedirectURI, scope)
	if err != nil {
		// A redirect target the client never registered cannot be
		// trusted with the error either.
		if errors.Is(err, errors.ErrUnauthorizedClient) {
			return authgate.InlineError{Err: err}
		}
		return authgate.RedirectError{RedirectURI: req.RedirectURI, Flow: authgate.Token, Err: err, State: req.State}
	}

	if outcome, pending := s.stepUp(ctx, authgate.Token, auth, req); pending {
		return outcome
	}

	grant, err := s.Manager.IssueToken(ctx, auth)
	if err != nil {
		return authgate.RedirectError{RedirectURI: auth.RedirectURI, Flow: authgate.Token, Err: errors.ErrServerError, State: req.State}
	}
	return authgate.RedirectToken{RedirectURI: auth.RedirectURI, Grant: grant, State: req.State}
}
