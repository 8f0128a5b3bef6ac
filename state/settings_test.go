package state

import (
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/rotviz/spatialmath"
)

func TestSettingsNormalize(t *testing.T) {
	s := DefaultSettings()
	test.That(t, s.Validate(), test.ShouldBeNil)

	s.QuaternionOrder = "XYZW"
	s.AngleUnit = "degrees"
	s.Representation = " Euler "
	s.EulerOrder = "zyx"
	out, err := s.Normalize()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.QuaternionOrder, test.ShouldEqual, spatialmath.ScalarLast)
	test.That(t, out.AngleUnit, test.ShouldEqual, Degrees)
	test.That(t, out.Representation, test.ShouldEqual, ReprEuler)
	test.That(t, out.EulerOrder, test.ShouldEqual, spatialmath.EulerExtrinsicZYX)

	bad := Settings{
		Representation:  "spinor",
		QuaternionOrder: "wzyx",
		AngleUnit:       "grad",
		EulerOrder:      "XYX",
		Precision:       40,
		GimbalTolerance: 0,
	}
	err = bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, multierr.Errors(err), test.ShouldHaveLength, 6)
	test.That(t, err.Error(), test.ShouldContainSubstring, `rotation representation "spinor" not recognized`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "precision 40 out of range")
}

func TestParseAngleUnit(t *testing.T) {
	for _, in := range []string{"rad", "Radians"} {
		u, err := ParseAngleUnit(in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, u, test.ShouldEqual, Radians)
	}
	u, err := ParseAngleUnit("DEG")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, u, test.ShouldEqual, Degrees)
	test.That(t, u.toDisplay(u.fromDisplay(45)), test.ShouldAlmostEqual, 45.)
	_, err = ParseAngleUnit("turns")
	test.That(t, err, test.ShouldNotBeNil)
}
