package server

import (
	"context"
	"net/http"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
	"github.com/authgate/authgate/utils/totp"
)

// stepUp checks whether the resource owner has a second factor enrolled.
// The second return value reports whether the outcome is terminal, i.e.
// issuance must not proceed on this request.
func (s *Server) stepUp(ctx context.Context, flow authgate.ResponseType, auth *authgate.Authorization, req *authgate.AuthorizationRequest) (authgate.Outcome, bool) {
	if req.Endpoints.StepUpURL == "" || s.users == nil {
		return nil, false
	}

	factors, err := s.users.SecondFactors(ctx, auth.OwnerID)
	if err != nil {
		return authgate.RedirectError{
			RedirectURI: auth.RedirectURI,
			Flow:        flow,
			Err:         errors.ErrServerError,
			State:       req.State,
		}, true
	}
	if len(factors) == 0 {
		return nil, false
	}

	return authgate.RedirectStepUp{
		Flow:          flow,
		OwnerID:       auth.OwnerID,
		Authorization: auth,
		State:         req.State,
		RedirectURI:   auth.RedirectURI,
		StepUpURL:     req.Endpoints.StepUpURL,
	}, true
}

// HandleStepUpRequest completes a pending authorization after a second
// factor challenge. The challenge page posts back the authorization id,
// the passcode and the state it was handed on redirect. A failed
// passcode voids the pending authorization, the owner has to start over.
func (s *Server) HandleStepUpRequest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if r.Form == nil {
		if err := r.ParseForm(); err != nil {
			return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrInvalidRequest})
		}
	}

	id := r.Form.Get("authorization_id")
	passcode := r.Form.Get("passcode")
	state := r.Form.Get("state")
	if id == "" || passcode == "" {
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrInvalidRequest})
	}

	if s.resumer == nil || s.users == nil {
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrServerError})
	}

	auth, err := s.resumer.TakeAuthorization(ctx, id)
	if err != nil {
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrInvalidGrant})
	}

	factors, err := s.users.SecondFactors(ctx, auth.OwnerID)
	if err != nil {
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrServerError})
	}
	if !verifyPasscode(factors, passcode) {
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrAccessDenied})
	}

	switch auth.Flow {
	case authgate.Code:
		code, err := s.Manager.IssueCode(ctx, auth)
		if err != nil {
			return s.WriteOutcome(w, authgate.RedirectError{RedirectURI: auth.RedirectURI, Flow: authgate.Code, Err: errors.ErrServerError, State: state})
		}
		return s.WriteOutcome(w, authgate.RedirectCode{RedirectURI: auth.RedirectURI, Code: code, State: state})
	case authgate.Token:
		grant, err := s.Manager.IssueToken(ctx, auth)
		if err != nil {
			return s.WriteOutcome(w, authgate.RedirectError{RedirectURI: auth.RedirectURI, Flow: authgate.Token, Err: errors.ErrServerError, State: state})
		}
		return s.WriteOutcome(w, authgate.RedirectToken{RedirectURI: auth.RedirectURI, Grant: grant, State: state})
	default:
		return s.WriteOutcome(w, authgate.InlineError{Err: errors.ErrServerError})
	}
}

func verifyPasscode(factors []authgate.SecondFactorInfo, passcode string) bool {
	cfg := totp.DefaultConfig()
	for _, f := range factors {
		if f.GetType() != "totp" {
			continue
		}
		if totp.ValidateCode(f.GetSecret(), passcode, cfg) {
			return true
		}
	}
	return false
}
