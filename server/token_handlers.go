package server

import (
	"net/http"

	"github.com/authgate/authgate/errors"
)

// clientCredentials pulls the client id and secret from the request,
// preferring HTTP Basic over form fields.
func clientCredentials(r *http.Request) (string, string, error) {
	if id, secret, ok := r.BasicAuth(); ok {
		return id, secret, nil
	}
	id := r.Form.Get("client_id")
	if id == "" {
		return "", "", errors.ErrInvalidClient
	}
	return id, r.Form.Get("client_secret"), nil
}

// HandleTokenRequest redeems an authorization code for an access token.
func (s *Server) HandleTokenRequest(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		return s.tokenError(w, errors.ErrInvalidRequest)
	}
	if r.Form == nil {
		if err := r.ParseForm(); err != nil {
			return s.tokenError(w, errors.ErrInvalidRequest)
		}
	}
	if r.Form.Get("grant_type") != "authorization_code" {
		return s.tokenError(w, errors.ErrInvalidGrant)
	}
	code := r.Form.Get("code")
	if code == "" {
		return s.tokenError(w, errors.ErrInvalidRequest)
	}

	clientID, clientSecret, err := clientCredentials(r)
	if err != nil {
		return s.tokenError(w, err)
	}

	if s.exchanger == nil {
		return s.tokenError(w, errors.ErrServerError)
	}
	grant, err := s.exchanger.ExchangeCode(ctx, clientID, clientSecret, code, r.Form.Get("redirect_uri"))
	if err != nil {
		return s.tokenError(w, err)
	}

	data := map[string]interface{}{
		"access_token": grant.AccessToken,
		"token_type":   grant.TokenType,
		"expires_in":   grant.ExpiresIn,
	}
	if len(grant.GrantedScope) > 0 {
		data["scope"] = grant.GrantedScope.String()
	}
	return s.writeJSON(w, data, nil, http.StatusOK)
}

func (s *Server) tokenError(w http.ResponseWriter, err error) error {
	data, statusCode, header := s.GetErrorData(err)
	return s.writeJSON(w, data, header, statusCode)
}
