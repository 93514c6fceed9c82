package types_test

import (
	"encoding/json"
	"math"
	"testing"

	types "github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFloat(t *testing.T) {
	Convey("Given an optional float", t, func() {
		Convey("When it is the zero value", func() {
			var f types.Float

			Convey("Then it should be absent", func() {
				So(f.Present(), ShouldBeFalse)
				So(f.Ptr(), ShouldBeNil)
				So(f.Or(3), ShouldEqual, 3.0)
				So(f.String(), ShouldEqual, "absent")
				So(f.Equal(types.None()), ShouldBeTrue)
			})
		})

		Convey("When it holds a value", func() {
			f := types.Some(7.5)

			Convey("Then Get should return it", func() {
				v, ok := f.Get()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 7.5)
				So(*f.Ptr(), ShouldEqual, 7.5)
			})

			Convey("And Map should transform it", func() {
				So(f.Map(func(v float64) float64 { return v * 2 }).Or(0), ShouldEqual, 15.0)
			})

			Convey("And it should not equal an absent value", func() {
				So(f.Equal(types.None()), ShouldBeFalse)
				So(f.Equal(types.Some(7.5)), ShouldBeTrue)
			})
		})

		Convey("When converting from a pointer", func() {
			v := 4.2
			So(types.FromPtr(&v).Or(0), ShouldEqual, 4.2)
			So(types.FromPtr(nil).Present(), ShouldBeFalse)
		})
	})
}

func TestFloatJSON(t *testing.T) {
	type payload struct {
		Grade types.Float `json:"grade"`
	}

	Convey("Given a payload with an optional grade", t, func() {
		Convey("When the grade is absent", func() {
			out, err := json.Marshal(payload{})

			Convey("Then it should encode as null", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"grade":null}`)
			})
		})

		Convey("When the grade is present", func() {
			out, err := json.Marshal(payload{Grade: types.Some(6.5)})

			Convey("Then it should encode as a number", func() {
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"grade":6.5}`)
			})
		})

		Convey("When decoding null, a missing field and a number", func() {
			var a, b, c payload
			So(json.Unmarshal([]byte(`{"grade":null}`), &a), ShouldBeNil)
			So(json.Unmarshal([]byte(`{}`), &b), ShouldBeNil)
			So(json.Unmarshal([]byte(`{"grade":8}`), &c), ShouldBeNil)

			Convey("Then only the number should be present", func() {
				So(a.Grade.Present(), ShouldBeFalse)
				So(b.Grade.Present(), ShouldBeFalse)
				So(c.Grade.Or(0), ShouldEqual, 8.0)
			})
		})

		Convey("When decoding a non-number", func() {
			var p payload
			err := json.Unmarshal([]byte(`{"grade":"eight"}`), &p)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When encoding NaN", func() {
			_, err := json.Marshal(payload{Grade: types.Some(math.NaN())})

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
