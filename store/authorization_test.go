package store

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/authgate/authgate"
)

func pendingAuth(id string) *authgate.Authorization {
	now := time.Now()
	return &authgate.Authorization{
		ID:          id,
		Flow:        authgate.Code,
		OwnerID:     "000000",
		ClientID:    "111111",
		RedirectURI: "http://localhost:9094/cb",
		Scope:       authgate.Scope{"read"},
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Minute),
	}
}

func TestAuthorizationStore(t *testing.T) {
	ctx := context.Background()

	Convey("Pending authorization store", t, func() {
		s, err := NewMemoryAuthorizationStore()
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("save and take", func() {
			So(s.Save(ctx, pendingAuth("a1")), ShouldBeNil)

			got, err := s.Take(ctx, "a1")
			So(err, ShouldBeNil)
			So(got.OwnerID, ShouldEqual, "000000")
			So(got.Scope, ShouldResemble, authgate.Scope{"read"})

			Convey("take consumes the record", func() {
				_, err := s.Take(ctx, "a1")
				So(err, ShouldEqual, ErrAuthorizationNotFound)
			})
		})

		Convey("codes are stored under their own keys", func() {
			So(s.SaveCode(ctx, "c1", pendingAuth("a2")), ShouldBeNil)

			_, err := s.Take(ctx, "c1")
			So(err, ShouldEqual, ErrAuthorizationNotFound)

			got, err := s.TakeCode(ctx, "c1")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, "a2")

			_, err = s.TakeCode(ctx, "c1")
			So(err, ShouldEqual, ErrAuthorizationNotFound)
		})

		Convey("unknown keys", func() {
			_, err := s.Take(ctx, "missing")
			So(err, ShouldEqual, ErrAuthorizationNotFound)

			_, err = s.TakeCode(ctx, "missing")
			So(err, ShouldEqual, ErrAuthorizationNotFound)
		})

		Convey("records expire", func() {
			s.SetTTL(20*time.Millisecond, 20*time.Millisecond)
			So(s.Save(ctx, pendingAuth("a3")), ShouldBeNil)
			So(s.SaveCode(ctx, "c3", pendingAuth("a3")), ShouldBeNil)

			time.Sleep(60 * time.Millisecond)

			_, err := s.Take(ctx, "a3")
			So(err, ShouldEqual, ErrAuthorizationNotFound)
			_, err = s.TakeCode(ctx, "c3")
			So(err, ShouldEqual, ErrAuthorizationNotFound)
		})
	})
}
