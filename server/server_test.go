package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/generates"
	"github.com/authgate/authgate/models"
)

func clientForDomain(domain string) *models.Client {
	return &models.Client{
		ID:     testClientID,
		Secret: testClientSecret,
		Name:   "Test Client",
		Domain: domain,
		Scope:  authgate.Scope{"read", "write"},
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthorizeCodeFlow(t *testing.T) {
	f := newFixture(t)

	tsrv := httptest.NewServer(NewGinEngine(f.srv))
	defer tsrv.Close()

	e := httpexpect.Default(t, tsrv.URL)

	var csrv *httptest.Server
	csrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2":
			r.ParseForm()
			code, state := r.Form.Get("code"), r.Form.Get("state")
			if state != "123" {
				t.Error("unrecognized state:", state)
				return
			}
			resObj := e.POST("/oauth/token").
				WithFormField("redirect_uri", csrv.URL+"/oauth2").
				WithFormField("code", code).
				WithFormField("grant_type", "authorization_code").
				WithBasicAuth(testClientID, testClientSecret).
				Expect().
				Status(http.StatusOK).
				JSON().Object()

			t.Logf("%#v\n", resObj.Raw())

			validationAccessToken(t, resObj.Value("access_token").String().Raw())
		}
	}))
	defer csrv.Close()

	// point the registered client at the callback server
	f.clients.Set(testClientID, clientForDomain(csrv.URL))

	e.POST("/oauth/authorize").
		WithFormField("response_type", "code").
		WithFormField("client_id", testClientID).
		WithFormField("scope", "read").
		WithFormField("state", "123").
		WithFormField("redirect_uri", csrv.URL+"/oauth2").
		WithFormField("username", "test").
		WithFormField("password", "test").
		Expect().Status(http.StatusOK)
}

func TestTokenEndpointRejectsBadSecret(t *testing.T) {
	f := newFixture(t)

	tsrv := httptest.NewServer(NewGinEngine(f.srv))
	defer tsrv.Close()

	e := httpexpect.Default(t, tsrv.URL)

	e.POST("/oauth/token").
		WithFormField("grant_type", "authorization_code").
		WithFormField("code", "whatever").
		WithBasicAuth(testClientID, "wrong").
		Expect().Status(http.StatusUnauthorized).
		JSON().Object().HasValue("error", "invalid_client")
}

func TestTokenEndpointRejectsUnknownGrantType(t *testing.T) {
	f := newFixture(t)

	tsrv := httptest.NewServer(NewGinEngine(f.srv))
	defer tsrv.Close()

	e := httpexpect.Default(t, tsrv.URL)

	e.POST("/oauth/token").
		WithFormField("grant_type", "client_credentials").
		WithBasicAuth(testClientID, testClientSecret).
		Expect().Status(http.StatusUnauthorized).
		JSON().Object().HasValue("error", "invalid_grant")
}

func validationAccessToken(t *testing.T, accessToken string) {
	t.Helper()
	token, err := jwt.ParseWithClaims(accessToken, &generates.JWTAccessClaims{}, func(tk *jwt.Token) (interface{}, error) {
		return []byte(testJWTKey), nil
	})
	if err != nil {
		t.Fatal(err.Error())
	}
	claims, ok := token.Claims.(*generates.JWTAccessClaims)
	if !ok || !token.Valid {
		t.Fatal("invalid access token")
	}
	if claims.Subject != testOwnerID {
		t.Errorf("subject = %q, want %q", claims.Subject, testOwnerID)
	}
	if claims.ClientID != testClientID {
		t.Errorf("client_id = %q, want %q", claims.ClientID, testClientID)
	}
}
