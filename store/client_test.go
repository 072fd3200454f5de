package store

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/models"
)

func TestClientStore(t *testing.T) {
	ctx := context.Background()

	Convey("Memory client store", t, func() {
		cs := NewClientStore()

		Convey("unknown clients", func() {
			_, err := cs.GetByID(ctx, "missing")
			So(err, ShouldEqual, ErrClientNotFound)
			_, err = cs.GetByKey(ctx, "missing")
			So(err, ShouldEqual, ErrClientNotFound)
		})

		Convey("lookup by id and internal key", func() {
			So(cs.Set("111111", &models.Client{ID: "111111", Key: "internal-1", Domain: "http://localhost"}), ShouldBeNil)

			byID, err := cs.GetByID(ctx, "111111")
			So(err, ShouldBeNil)
			So(byID.GetDomain(), ShouldEqual, "http://localhost")

			byKey, err := cs.GetByKey(ctx, "internal-1")
			So(err, ShouldBeNil)
			So(byKey.GetID(), ShouldEqual, "111111")
		})

		Convey("the key falls back to the id", func() {
			So(cs.Set("222222", &models.Client{ID: "222222"}), ShouldBeNil)

			byKey, err := cs.GetByKey(ctx, "222222")
			So(err, ShouldBeNil)
			So(byKey.GetID(), ShouldEqual, "222222")
		})
	})
}

func TestClientModelDefaults(t *testing.T) {
	Convey("Client display name and scope", t, func() {
		anonymous := &models.Client{ID: "abc"}
		So(anonymous.GetName(), ShouldEqual, "abc")
		So(anonymous.GetScope(), ShouldBeNil)

		named := &models.Client{ID: "abc", Name: "My App", Scope: authgate.Scope{"read"}}
		So(named.GetName(), ShouldEqual, "My App")
		So(named.GetScope(), ShouldResemble, authgate.Scope{"read"})
	})
}
