package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestParseEulerOrder(t *testing.T) {
	o, err := ParseEulerOrder(" ZYX ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, o, test.ShouldEqual, EulerZYX)
	test.That(t, o.Extrinsic(), test.ShouldBeFalse)
	test.That(t, o.Labels(), test.ShouldResemble, []string{"z", "y", "x"})

	o, err = ParseEulerOrder("xzy")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, o.Extrinsic(), test.ShouldBeTrue)
	test.That(t, o.intrinsic(), test.ShouldEqual, EulerYZX)

	for _, bad := range []string{"", "XYX", "xYz", "abc", "XYZW"} {
		_, err := ParseEulerOrder(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestEulerKnownValues(t *testing.T) {
	// a quarter turn about x then a quarter turn about the new y
	ea := NewEulerAnglesFromDegrees(EulerXYZ, 90, 90, 0)
	rm := ea.RotationMatrix()
	expected := [9]float64{
		0, 0, 1,
		1, 0, 0,
		0, 1, 0,
	}
	for i, v := range rm.Values() {
		test.That(t, v, test.ShouldAlmostEqual, expected[i])
	}

	// the same two turns about the fixed axes compose the other way round
	ea = NewEulerAnglesFromDegrees(EulerExtrinsicXYZ, 90, 90, 0)
	rm = ea.RotationMatrix()
	expected = [9]float64{
		0, 1, 0,
		0, 0, -1,
		-1, 0, 0,
	}
	for i, v := range rm.Values() {
		test.That(t, v, test.ShouldAlmostEqual, expected[i])
	}

	deg := NewEulerAnglesFromDegrees(EulerZYX, 30, -45, 60).Degrees()
	test.That(t, deg[0], test.ShouldAlmostEqual, 30.)
	test.That(t, deg[1], test.ShouldAlmostEqual, -45.)
	test.That(t, deg[2], test.ShouldAlmostEqual, 60.)
}

func TestExtrinsicMatchesReversedIntrinsic(t *testing.T) {
	angles := [3]float64{0.3, -0.7, 1.1}
	pairs := map[EulerOrder]EulerOrder{
		EulerExtrinsicXYZ: EulerZYX,
		EulerExtrinsicXZY: EulerYZX,
		EulerExtrinsicYXZ: EulerZXY,
		EulerExtrinsicYZX: EulerXZY,
		EulerExtrinsicZXY: EulerYXZ,
		EulerExtrinsicZYX: EulerXYZ,
	}
	for ext, in := range pairs {
		e := &EulerAngles{Order: ext, Angles: angles}
		i := &EulerAngles{Order: in, Angles: [3]float64{angles[2], angles[1], angles[0]}}
		test.That(t, OrientationAlmostEqualEps(e, i, 1e-12), test.ShouldBeTrue)
	}
}

func TestEulerRoundTripAllOrders(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for _, order := range EulerOrders {
		for i := 0; i < 50; i++ {
			angles := [3]float64{
				(r.Float64()*2 - 1) * (math.Pi - 0.01),
				(r.Float64()*2 - 1) * (math.Pi/2 - 0.01),
				(r.Float64()*2 - 1) * (math.Pi - 0.01),
			}
			ea := &EulerAngles{Order: order, Angles: angles}
			back := ea.EulerAngles(order)
			test.That(t, back.Order, test.ShouldEqual, order)
			for j := range angles {
				test.That(t, back.Angles[j], test.ShouldAlmostEqual, angles[j], 1e-9)
			}
			test.That(t, back.GimbalLocked(DefaultGimbalTolerance), test.ShouldBeFalse)
		}
	}
}

func TestEulerGimbalLock(t *testing.T) {
	for _, order := range EulerOrders {
		for _, mid := range []float64{math.Pi / 2, -math.Pi / 2} {
			ea := &EulerAngles{Order: order, Angles: [3]float64{0.3, mid, 0.2}}
			back := ea.EulerAngles(order)
			test.That(t, back.GimbalLocked(DefaultGimbalTolerance), test.ShouldBeTrue)
			test.That(t, math.Abs(back.Angles[1]), test.ShouldAlmostEqual, math.Pi/2, 1e-6)
			// one of the outer angles is pinned and the other absorbs the lost freedom
			if order.Extrinsic() {
				test.That(t, back.Angles[0], test.ShouldEqual, 0.)
			} else {
				test.That(t, back.Angles[2], test.ShouldEqual, 0.)
			}
			test.That(t, OrientationAlmostEqualEps(back, ea, 1e-6), test.ShouldBeTrue)
		}
	}

	near := &EulerAngles{Order: EulerXYZ, Angles: [3]float64{0, math.Pi/2 - 0.01, 0}}
	test.That(t, near.GimbalLocked(DefaultGimbalTolerance), test.ShouldBeFalse)
	test.That(t, near.GimbalLocked(0.1), test.ShouldBeTrue)
}

func TestEulerValidate(t *testing.T) {
	test.That(t, NewEulerAngles().Validate(), test.ShouldBeNil)
	test.That(t, (&EulerAngles{Order: "XXY"}).Validate(), test.ShouldNotBeNil)
	test.That(t, (&EulerAngles{Order: EulerXYZ, Angles: [3]float64{math.NaN(), 0, 0}}).Validate(), test.ShouldNotBeNil)

	// unknown orders decompose in the default order
	ea := QuatToEulerAngles(aa45x.Quaternion(), "nope")
	test.That(t, ea.Order, test.ShouldEqual, DefaultEulerOrder)
	test.That(t, ea.Angles[0], test.ShouldAlmostEqual, th)
}
