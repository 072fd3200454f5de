package manage

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
	"github.com/authgate/authgate/generates"
	"github.com/authgate/authgate/models"
	"github.com/authgate/authgate/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m := NewDefaultManager()
	m.MustAuthorizationStorage(store.NewMemoryAuthorizationStore())
	m.MapAccessGenerate(generates.NewJWTAccessGenerate("", []byte("00000000"), jwt.SigningMethodHS512))

	clients := store.NewClientStore()
	_ = clients.Set("111111", &models.Client{
		ID:     "111111",
		Secret: "11111111",
		Domain: "http://localhost:9094",
		Scope:  authgate.Scope{"read", "write"},
	})
	m.MapClientStorage(clients)

	users := store.NewUserStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("test"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	users.Set(&models.User{ID: "000000", Username: "test", PasswordHash: string(hash)})
	m.MapUserStorage(users)

	return m
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	identity := authgate.CredentialIdentity{Username: "test", Password: "test"}

	Convey("Grant authorizer", t, func() {
		m := newTestManager(t)

		Convey("code grant end to end", func() {
			auth, err := m.AuthorizeCode(ctx, identity, "111111", "http://localhost:9094/cb", authgate.Scope{"read"})
			So(err, ShouldBeNil)
			So(auth.Flow, ShouldEqual, authgate.Code)
			So(auth.OwnerID, ShouldEqual, "000000")
			So(auth.ClientID, ShouldEqual, "111111")

			code, err := m.IssueCode(ctx, auth)
			So(err, ShouldBeNil)
			So(code, ShouldNotBeEmpty)

			grant, err := m.ExchangeCode(ctx, "111111", "11111111", code, "http://localhost:9094/cb")
			So(err, ShouldBeNil)
			So(grant.AccessToken, ShouldNotBeEmpty)
			So(grant.TokenType, ShouldEqual, "Bearer")
			So(grant.ExpiresIn, ShouldEqual, int64(7200))

			Convey("a code is single use", func() {
				_, err := m.ExchangeCode(ctx, "111111", "11111111", code, "http://localhost:9094/cb")
				So(err, ShouldEqual, errors.ErrInvalidGrant)
			})
		})

		Convey("token grant resolves the client by its internal key", func() {
			auth, err := m.AuthorizePassword(ctx, identity, "111111", "", authgate.Scope{"read"})
			So(err, ShouldBeNil)
			So(auth.Flow, ShouldEqual, authgate.Token)
			// redirect falls back to the registered domain
			So(auth.RedirectURI, ShouldEqual, "http://localhost:9094")

			grant, err := m.IssueToken(ctx, auth)
			So(err, ShouldBeNil)
			So(grant.AccessToken, ShouldNotBeEmpty)
			So(grant.GrantedScope, ShouldResemble, authgate.Scope{"read"})
		})

		Convey("unknown client", func() {
			_, err := m.AuthorizeCode(ctx, identity, "nope", "", nil)
			So(err, ShouldEqual, errors.ErrUnauthorizedClient)

			_, err = m.AuthorizePassword(ctx, identity, "nope", "", nil)
			So(err, ShouldEqual, errors.ErrUnauthorizedClient)
		})

		Convey("redirect outside the registered domain", func() {
			_, err := m.AuthorizeCode(ctx, identity, "111111", "http://evil.example/cb", nil)
			So(err, ShouldEqual, errors.ErrUnauthorizedClient)
		})

		Convey("bad credentials", func() {
			bad := authgate.CredentialIdentity{Username: "test", Password: "wrong"}
			_, err := m.AuthorizeCode(ctx, bad, "111111", "", nil)
			So(err, ShouldEqual, errors.ErrAccessDenied)

			unknown := authgate.OwnerIdentity{OwnerID: "ghost"}
			_, err = m.AuthorizeCode(ctx, unknown, "111111", "", nil)
			So(err, ShouldEqual, errors.ErrAccessDenied)
		})

		Convey("scope outside the client allowance", func() {
			_, err := m.AuthorizeCode(ctx, identity, "111111", "", authgate.Scope{"admin"})
			So(err, ShouldEqual, errors.ErrInvalidScope)
		})

		Convey("pending authorization is consumed once", func() {
			auth, err := m.AuthorizeCode(ctx, identity, "111111", "", authgate.Scope{"read"})
			So(err, ShouldBeNil)

			taken, err := m.TakeAuthorization(ctx, auth.ID)
			So(err, ShouldBeNil)
			So(taken.OwnerID, ShouldEqual, auth.OwnerID)

			_, err = m.TakeAuthorization(ctx, auth.ID)
			So(err, ShouldEqual, errors.ErrInvalidGrant)
		})

		Convey("exchange with the wrong secret", func() {
			auth, err := m.AuthorizeCode(ctx, identity, "111111", "", authgate.Scope{"read"})
			So(err, ShouldBeNil)
			code, err := m.IssueCode(ctx, auth)
			So(err, ShouldBeNil)

			_, err = m.ExchangeCode(ctx, "111111", "wrong", code, "")
			So(err, ShouldEqual, errors.ErrInvalidClient)
		})
	})
}

func TestRedirectAllowed(t *testing.T) {
	Convey("Registered domain rule", t, func() {
		cli := &models.Client{ID: "c", Domain: "http://localhost:9094"}

		So(redirectAllowed(cli, "http://localhost:9094"), ShouldBeTrue)
		So(redirectAllowed(cli, "http://localhost:9094/cb"), ShouldBeTrue)
		So(redirectAllowed(cli, ""), ShouldBeTrue)
		So(redirectAllowed(cli, "http://localhost:9095/cb"), ShouldBeFalse)
		So(redirectAllowed(cli, "http://evil.example"), ShouldBeFalse)

		Convey("a client without a domain accepts anything", func() {
			open := &models.Client{ID: "c"}
			So(redirectAllowed(open, "http://anywhere.example/cb"), ShouldBeTrue)
		})
	})
}

func TestManagerConfig(t *testing.T) {
	Convey("Lifetime configuration", t, func() {
		m := newTestManager(t)
		m.SetConfig(&Config{
			AuthorizationExp: time.Minute,
			CodeExp:          time.Minute,
			AccessTokenExp:   time.Hour,
		})
		m.SetTokenType("MAC")

		auth, err := m.AuthorizeCode(context.Background(), authgate.CredentialIdentity{Username: "test", Password: "test"}, "111111", "", authgate.Scope{"read"})
		So(err, ShouldBeNil)
		So(auth.ExpiresAt.Sub(auth.CreatedAt), ShouldEqual, time.Minute)

		grant, err := m.IssueToken(context.Background(), auth)
		So(err, ShouldBeNil)
		So(grant.TokenType, ShouldEqual, "MAC")
		So(grant.ExpiresIn, ShouldEqual, int64(3600))
	})
}
