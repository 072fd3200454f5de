package store

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/authgate/authgate/models"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()

	Convey("Memory user store", t, func() {
		us := NewUserStore()
		us.Set(&models.User{ID: "000000", Username: "test", Name: "Test User"})

		Convey("lookup by id and username", func() {
			byID, err := us.GetByID(ctx, "000000")
			So(err, ShouldBeNil)
			So(byID.GetUsername(), ShouldEqual, "test")

			byName, err := us.GetByUsername(ctx, "test")
			So(err, ShouldBeNil)
			So(byName.GetID(), ShouldEqual, "000000")
		})

		Convey("unknown users", func() {
			_, err := us.GetByID(ctx, "missing")
			So(err, ShouldEqual, ErrUserNotFound)
			_, err = us.GetByUsername(ctx, "missing")
			So(err, ShouldEqual, ErrUserNotFound)
		})

		Convey("second factor enrollment", func() {
			factors, err := us.SecondFactors(ctx, "000000")
			So(err, ShouldBeNil)
			So(factors, ShouldBeEmpty)

			us.Enroll("000000", &models.SecondFactor{OwnerID: "000000", Type: "totp", Secret: "SECRET"})

			factors, err = us.SecondFactors(ctx, "000000")
			So(err, ShouldBeNil)
			So(factors, ShouldHaveLength, 1)
			So(factors[0].GetType(), ShouldEqual, "totp")
			So(factors[0].GetSecret(), ShouldEqual, "SECRET")
		})
	})
}
