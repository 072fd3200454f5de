package server

import (
	"context"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
)

// formOutcome builds the consent form for a GET request. A client that
// cannot be resolved never reaches a redirect, the failure is shown on
// the page itself.
func (s *Server) formOutcome(ctx context.Context, req *authgate.AuthorizationRequest, scope authgate.Scope) authgate.Outcome {
	if s.clients == nil {
		return authgate.InlineError{Err: errors.ErrServerError}
	}
	cli, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return authgate.InlineError{Err: errors.ErrNoClientID}
	}

	params := authgate.FormParams{
		ClientID:          req.ClientID,
		ClientName:        cli.GetName(),
		RedirectURI:       req.RedirectURI,
		ResponseType:      req.ResponseType,
		Scope:             scope,
		ScopeDescriptions: s.describeScope(scope),
		State:             req.State,
		FormTargetURL:     req.Endpoints.FormTargetURL,
	}

	if req.ResourceOwnerID != "" && s.users != nil {
		if user, err := s.users.GetByID(ctx, req.ResourceOwnerID); err == nil {
			params.OwnerName = user.GetName()
		}
	}

	return authgate.RenderForm{Params: params}
}

func (s *Server) describeScope(scope authgate.Scope) []authgate.ScopeDescription {
	if s.describer == nil {
		return nil
	}
	return s.describer.Describe(scope)
}
