package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
)

// ResolveAuthMethod inspects the Authorization header first, falling
// back to body/query credentials. Exactly one method is selected;
// Basic and Bearer are mutually exclusive because they share the
// header.
func ResolveAuthMethod(r *http.Request, req *authgate.AuthorizationRequest) authgate.AuthMethod {
	header := r.Header.Get("Authorization")

	if username, password, ok := parseBasicAuth(header); ok {
		return authgate.BasicCredentials{Username: username, Password: password}
	}

	if token, ok := parseBearerToken(header); ok {
		return authgate.BearerToken{Token: token}
	}

	if req.Username != "" || req.Password != "" {
		return authgate.FormCredentials{Username: req.Username, Password: req.Password}
	}
	return authgate.NoAuth{}
}

func parseBasicAuth(header string) (username, password string, ok bool) {
	const prefix = "Basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return
	}
	cs := string(decoded)
	username, password, ok = strings.Cut(cs, ":")
	return
}

func parseBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// authenticate enriches the request from the resolved method. Header
// credentials overwrite body/query credentials; a verified bearer
// token sets the resource owner. A bearer token that fails
// verification, or verifies without an owner, is a terminal
// access_denied.
func (s *Server) authenticate(ctx context.Context, method authgate.AuthMethod, req *authgate.AuthorizationRequest) authgate.Outcome {
	switch m := method.(type) {
	case authgate.BasicCredentials:
		req.Username = m.Username
		req.Password = m.Password

	case authgate.BearerToken:
		req.BearerToken = m.Token
		if s.verifier == nil {
			return authgate.InlineError{Err: errors.ErrAccessDenied}
		}
		bc, err := s.verifier.Verify(ctx, m.Token)
		if err != nil || bc == nil || bc.OwnerID == "" {
			return authgate.InlineError{Err: errors.ErrAccessDenied}
		}
		req.ResourceOwnerID = bc.OwnerID

	case authgate.FormCredentials, authgate.NoAuth:
		// body/query credentials from the normalizer stand as-is
	}
	return nil
}
