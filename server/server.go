package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
	"github.com/authgate/authgate/render"
)

// CodeExchanger redeems issued authorization codes; implemented by
// manage.Manager and consumed by the token endpoint.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, clientID, clientSecret, code, redirectURI string) (*authgate.TokenGrant, error)
}

// AuthorizationResumer resumes a pending authorization after a
// completed step-up challenge.
type AuthorizationResumer interface {
	TakeAuthorization(ctx context.Context, id string) (*authgate.Authorization, error)
}

// TokenTypeSetter accepts the token type reported on issued grants;
// implemented by manage.Manager.
type TokenTypeSetter interface {
	SetTokenType(tokenType string)
}

// NewDefaultServer create a default authorization server
func NewDefaultServer(manager authgate.GrantAuthorizer) *Server {
	return NewServer(NewConfig(), manager)
}

// NewServer create authorization server
func NewServer(cfg *Config, manager authgate.GrantAuthorizer) *Server {
	srv := &Server{
		Config:    cfg,
		Manager:   manager,
		renderer:  render.NewHTML(),
		describer: DefaultScopeDescriber,
	}
	if ex, ok := manager.(CodeExchanger); ok {
		srv.exchanger = ex
	}
	if rs, ok := manager.(AuthorizationResumer); ok {
		srv.resumer = rs
	}
	if ts, ok := manager.(TokenTypeSetter); ok && cfg.TokenType != "" {
		ts.SetTokenType(cfg.TokenType)
	}
	return srv
}

// Server provide authorization server
type Server struct {
	Config  *Config
	Manager authgate.GrantAuthorizer

	clients   authgate.ClientStore
	users     authgate.UserStore
	verifier  authgate.TokenVerifier
	describer authgate.ScopeDescriber
	renderer  authgate.Renderer
	exchanger CodeExchanger
	resumer   AuthorizationResumer

	InternalErrorHandler func(err error) *errors.Response
	ResponseErrorHandler func(re *errors.Response)
}

// MapClientStorage mapping the client registry used for form rendering
// and internal-identifier resolution
func (s *Server) MapClientStorage(stor authgate.ClientStore) {
	s.clients = stor
}

// MapUserStorage mapping the user registry used for display names and
// second-factor enrollment
func (s *Server) MapUserStorage(stor authgate.UserStore) {
	s.users = stor
}

// SetTokenVerifier set the bearer token verification collaborator
func (s *Server) SetTokenVerifier(v authgate.TokenVerifier) {
	s.verifier = v
}

// SetScopeDescriber set the scope description lookup used by rendering
func (s *Server) SetScopeDescriber(d authgate.ScopeDescriber) {
	s.describer = d
}

// SetRenderer set the consent form renderer
func (s *Server) SetRenderer(r authgate.Renderer) {
	s.renderer = r
}

// SetInternalErrorHandler internal error handling
func (s *Server) SetInternalErrorHandler(fn func(err error) *errors.Response) {
	s.InternalErrorHandler = fn
}

// SetResponseErrorHandler response error handling
func (s *Server) SetResponseErrorHandler(fn func(re *errors.Response)) {
	s.ResponseErrorHandler = fn
}

// WriteOutcome maps a terminal outcome to exactly one transport
// response.
func (s *Server) WriteOutcome(w http.ResponseWriter, outcome authgate.Outcome) error {
	switch o := outcome.(type) {
	case authgate.RenderForm:
		w.Header().Set("Content-Type", "text/html;charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		return s.renderer.RenderForm(w, o.Params)

	case authgate.RedirectCode:
		data := map[string]interface{}{"code": o.Code}
		return s.redirect(w, o.RedirectURI, authgate.Code, o.State, data)

	case authgate.RedirectToken:
		data := map[string]interface{}{
			"access_token": o.Grant.AccessToken,
			"token_type":   o.Grant.TokenType,
			"expires_in":   o.Grant.ExpiresIn,
		}
		if len(o.Grant.GrantedScope) > 0 {
			data["scope"] = o.Grant.GrantedScope.String()
		}
		return s.redirect(w, o.RedirectURI, authgate.Token, o.State, data)

	case authgate.RedirectStepUp:
		data := map[string]interface{}{
			"flow":             o.Flow.String(),
			"owner_id":         o.OwnerID,
			"authorization_id": o.Authorization.ID,
		}
		if o.RedirectURI != "" {
			data["redirect_uri"] = o.RedirectURI
		}
		return s.redirect(w, o.StepUpURL, authgate.Code, o.State, data)

	case authgate.RedirectError:
		data, _, _ := s.GetErrorData(o.Err)
		return s.redirect(w, o.RedirectURI, o.Flow, o.State, data)

	case authgate.InlineError:
		data, statusCode, header := s.GetErrorData(o.Err)
		return s.writeJSON(w, data, header, statusCode)

	default:
		return errors.ErrServerError
	}
}

// redirect issues a 302 whose target carries the response data: query
// parameters for code-style flows, URL fragment for token flows.
func (s *Server) redirect(w http.ResponseWriter, base string, flow authgate.ResponseType, state string, data map[string]interface{}) error {
	if base == "" {
		// no trusted target to report on
		return s.writeJSON(w, map[string]interface{}{"error": errors.ErrInvalidRequest.Error()}, nil, errors.StatusCodes[errors.ErrInvalidRequest])
	}

	u, err := url.Parse(base)
	if err != nil {
		return err
	}

	q := u.Query()
	if state != "" {
		q.Set("state", state)
	}
	for k, v := range data {
		q.Set(k, fmt.Sprint(v))
	}

	switch flow {
	case authgate.Token:
		u.RawQuery = ""
		fragment, err := url.QueryUnescape(q.Encode())
		if err != nil {
			return err
		}
		u.Fragment = fragment
	default:
		u.RawQuery = q.Encode()
	}

	w.Header().Set("Location", u.String())
	w.WriteHeader(http.StatusFound)
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, header http.Header, statusCode int) error {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	for key := range header {
		w.Header().Set(key, header.Get(key))
	}

	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// GetErrorData get error response data
func (s *Server) GetErrorData(err error) (map[string]interface{}, int, http.Header) {
	var re errors.Response
	if v, ok := errors.Descriptions[err]; ok {
		re.Error = err
		re.Description = v
		re.StatusCode = errors.StatusCodes[err]
	} else {
		if fn := s.InternalErrorHandler; fn != nil {
			if v := fn(err); v != nil {
				re = *v
			}
		}

		if re.Error == nil {
			re.Error = errors.ErrServerError
			re.Description = errors.Descriptions[errors.ErrServerError]
			re.StatusCode = errors.StatusCodes[errors.ErrServerError]
		}
	}

	if fn := s.ResponseErrorHandler; fn != nil {
		fn(&re)
	}

	data := make(map[string]interface{})
	if err := re.Error; err != nil {
		data["error"] = err.Error()
	}
	if v := re.Description; v != "" {
		data["error_description"] = v
	}
	if v := re.URI; v != "" {
		data["error_uri"] = v
	}

	statusCode := http.StatusInternalServerError
	if v := re.StatusCode; v > 0 {
		statusCode = v
	}

	return data, statusCode, re.Header
}
