package authgate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseScope(t *testing.T) {
	Convey("Parse the raw scope parameter", t, func() {
		Convey("space separated", func() {
			So(ParseScope("read write"), ShouldResemble, Scope{"read", "write"})
		})
		Convey("comma separated", func() {
			So(ParseScope("read,write"), ShouldResemble, Scope{"read", "write"})
		})
		Convey("mixed separators and padding", func() {
			So(ParseScope("  read, \twrite\n"), ShouldResemble, Scope{"read", "write"})
		})
		Convey("duplicates are dropped, order preserved", func() {
			So(ParseScope("write read write"), ShouldResemble, Scope{"write", "read"})
		})
		Convey("empty input is a valid empty scope", func() {
			So(ParseScope(""), ShouldResemble, Scope{})
			So(ParseScope("  ,, "), ShouldResemble, Scope{})
		})
	})
}

func TestScope(t *testing.T) {
	Convey("Scope operations", t, func() {
		s := Scope{"read", "write"}

		Convey("wire form", func() {
			So(s.String(), ShouldEqual, "read write")
			So(Scope{}.String(), ShouldEqual, "")
		})
		Convey("contains", func() {
			So(s.Contains("read"), ShouldBeTrue)
			So(s.Contains("admin"), ShouldBeFalse)
		})
		Convey("subset", func() {
			So(s.IsSubsetOf(Scope{"read", "write", "admin"}), ShouldBeTrue)
			So(s.IsSubsetOf(Scope{"read"}), ShouldBeFalse)
			So(Scope{}.IsSubsetOf(Scope{}), ShouldBeTrue)
		})
	})
}
