package state

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/textformat"
)

var quarterZ = quat.Number{Real: math.Sqrt(0.5), Kmag: math.Sqrt(0.5)}

func newTestState(t *testing.T, modify func(*Settings)) *State {
	t.Helper()
	settings := DefaultSettings()
	if modify != nil {
		modify(&settings)
	}
	s, err := New(settings)
	test.That(t, err, test.ShouldBeNil)
	return s
}

func assertRotation(t *testing.T, s *State, want quat.Number) {
	t.Helper()
	test.That(t, spatialmath.QuaternionEquivalent(s.Quaternion(), want, 1e-6), test.ShouldBeTrue)
}

func TestNewState(t *testing.T) {
	s := newTestState(t, nil)
	snap := s.View()
	test.That(t, snap.Canonical, test.ShouldResemble, [4]float64{1, 0, 0, 0})
	test.That(t, snap.Quaternion.Values, test.ShouldResemble, []float64{1, 0, 0, 0})
	test.That(t, snap.Quaternion.Text, test.ShouldEqual, "[1.0, 0.0, 0.0, 0.0]")
	test.That(t, snap.Antipode.Text, test.ShouldEqual, "[-1.0, 0.0, 0.0, 0.0]")
	test.That(t, snap.AxisAngle.Values, test.ShouldResemble, []float64{1, 0, 0, 0})
	test.That(t, snap.Matrix.Text, test.ShouldEqual, "[[1.0, 0.0, 0.0],\n [0.0, 1.0, 0.0],\n [0.0, 0.0, 1.0]]")
	test.That(t, snap.Determinant, test.ShouldAlmostEqual, 1.)
	test.That(t, snap.Euler.Labels, test.ShouldResemble, []string{"x", "y", "z"})
	test.That(t, snap.GimbalLocked, test.ShouldBeFalse)
	test.That(t, snap.Error, test.ShouldBeNil)
	test.That(t, snap.Quaternion.Sliders, test.ShouldHaveLength, 4)
	test.That(t, snap.Matrix.Sliders, test.ShouldBeEmpty)

	_, err := New(Settings{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetTextPropagates(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Settings)
		repr   Representation
		text   string
	}{
		{"quaternion wxyz", nil, ReprQuaternion, "[0.7071068, 0, 0, 0.7071068]"},
		{"quaternion xyzw", func(s *Settings) { s.QuaternionOrder = spatialmath.ScalarLast }, ReprQuaternion, "[0, 0, 0.7071068, 0.7071068]"},
		{"quaternion antipode", nil, ReprQuaternion, "(-0.7071068, 0, 0, -0.7071068)"},
		{"unnormalized quaternion", nil, ReprQuaternion, "2 0 0 2"},
		{"axis angle radians", nil, ReprAxisAngle, "[0, 0, 1, 1.5707963]"},
		{"axis angle degrees", func(s *Settings) { s.AngleUnit = Degrees }, ReprAxisAngle, "[0, 0, 2, 90]"},
		{"axis angle negative", nil, ReprAxisAngle, "[0, 0, -1, 4.712389]"},
		{"rotation vector", nil, ReprRotationVector, "np.array([0, 0, 1.5707963])"},
		{"matrix", nil, ReprMatrix, "[[0, -1, 0], [1, 0, 0], [0, 0, 1]]"},
		{"matlab matrix", nil, ReprMatrix, "[0 -1 0; 1 0 0; 0 0 1]"},
		{"scaled matrix", nil, ReprMatrix, "[[0, -3, 0], [2, 0, 0], [0, 0, 5]]"},
		{"euler intrinsic", nil, ReprEuler, "[0, 0, 1.5707963]"},
		{"euler extrinsic degrees", func(s *Settings) {
			s.EulerOrder = spatialmath.EulerExtrinsicZYX
			s.AngleUnit = Degrees
		}, ReprEuler, "[90, 0, 0]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestState(t, c.modify)
			test.That(t, s.SetText(c.repr, c.text), test.ShouldBeNil)
			assertRotation(t, s, quarterZ)

			snap := s.View()
			test.That(t, snap.Active, test.ShouldEqual, c.repr)
			for _, v := range snap.Views() {
				if v.Repr == c.repr {
					test.That(t, v.Text, test.ShouldEqual, c.text)
				}
			}
			aa := snap.AxisAngle.Values
			test.That(t, aa[2], test.ShouldAlmostEqual, 1., 1e-6)
			if c.modify == nil {
				test.That(t, aa[3], test.ShouldAlmostEqual, math.Pi/2, 1e-6)
			}
			test.That(t, snap.Matrix.Values[1], test.ShouldAlmostEqual, -1., 1e-6)
			test.That(t, snap.Matrix.Values[3], test.ShouldAlmostEqual, 1., 1e-6)
		})
	}
}

func TestSetTextRejectsBadInput(t *testing.T) {
	cases := []struct {
		repr Representation
		text string
	}{
		{ReprQuaternion, "[0, 0, 0, 0]"},
		{ReprQuaternion, "[1, 0, 0]"},
		{ReprQuaternion, "[1, 0, 0, 0"},
		{ReprAxisAngle, "[0, 0, 0, 1]"},
		{ReprRotationVector, "[1, 2; 3]"},
		{ReprMatrix, "[[1, 0, 0], [1, 0, 0], [0, 0, 1]]"},
		{ReprMatrix, "[[1, 0, 0], [0, 1, 0]]"},
		{ReprEuler, ""},
		{ReprEuler, "[1, 2, nan]"},
	}
	for _, c := range cases {
		s := newTestState(t, nil)
		test.That(t, s.SetText(ReprQuaternion, "[0.7071068, 0, 0, 0.7071068]"), test.ShouldBeNil)
		s.Blur()

		err := s.SetText(c.repr, c.text)
		test.That(t, err, test.ShouldNotBeNil)
		var inputErr *InputError
		test.That(t, errors.As(err, &inputErr), test.ShouldBeTrue)
		test.That(t, inputErr.Repr, test.ShouldEqual, c.repr)
		assertRotation(t, s, quarterZ)

		snap := s.View()
		test.That(t, snap.Error, test.ShouldNotBeNil)
		test.That(t, snap.Error.Field, test.ShouldEqual, c.repr)
		for _, v := range snap.Views() {
			if v.Repr == c.repr {
				test.That(t, v.Text, test.ShouldEqual, c.text)
				test.That(t, v.Error, test.ShouldNotBeEmpty)
			} else {
				test.That(t, v.Error, test.ShouldBeEmpty)
			}
		}

		s.Blur()
		test.That(t, s.View().Error, test.ShouldBeNil)
		test.That(t, s.Err(), test.ShouldBeNil)
	}

	s := newTestState(t, nil)
	err := s.SetText("spinor", "[1, 0, 0, 0]")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.(*InputError).Repr, test.ShouldEqual, Representation("spinor"))
}

func TestParseErrorKindSurvives(t *testing.T) {
	s := newTestState(t, nil)
	err := s.SetText(ReprQuaternion, "[1, 0, 0, 0)")
	var perr *textformat.ParseError
	test.That(t, errors.As(err, &perr), test.ShouldBeTrue)
	test.That(t, perr.Kind, test.ShouldEqual, textformat.KindBracket)
}

func TestNotationIsRemembered(t *testing.T) {
	s := newTestState(t, nil)
	test.That(t, s.SetText(ReprQuaternion, "np.array([1, 0, 0, 0])"), test.ShouldBeNil)
	test.That(t, s.SetText(ReprMatrix, "[0 -1 0; 1 0 0; 0 0 1]"), test.ShouldBeNil)
	s.Blur()

	snap := s.View()
	test.That(t, snap.Active, test.ShouldEqual, Representation(""))
	test.That(t, snap.Quaternion.Text, test.ShouldEqual, "np.array([0.7071, 0.0, 0.0, 0.7071])")
	test.That(t, snap.Matrix.Text, test.ShouldEqual, "[0.0 -1.0 0.0; 1.0 0.0 0.0; 0.0 0.0 1.0]")
	test.That(t, snap.Antipode.Text, test.ShouldEqual, "np.array([-0.7071, 0.0, 0.0, -0.7071])")

	s.Reset()
	snap = s.View()
	test.That(t, snap.Quaternion.Text, test.ShouldEqual, "[1.0, 0.0, 0.0, 0.0]")
	assertRotation(t, s, quat.Number{Real: 1})
}

func TestQuaternionSliders(t *testing.T) {
	s := newTestState(t, nil)
	test.That(t, s.SetSlider(ReprQuaternion, 0, 0.5), test.ShouldBeNil)
	snap := s.View()
	test.That(t, snap.Quaternion.Values[0], test.ShouldEqual, 0.5)
	test.That(t, snap.Quaternion.Values[1], test.ShouldAlmostEqual, math.Sqrt(0.75))
	test.That(t, snap.Active, test.ShouldEqual, ReprQuaternion)

	// w was moved last, so moving x adjusts y before touching w
	test.That(t, s.SetSlider(ReprQuaternion, 1, 0.6), test.ShouldBeNil)
	snap = s.View()
	test.That(t, snap.Quaternion.Values[0], test.ShouldEqual, 0.5)
	test.That(t, snap.Quaternion.Values[1], test.ShouldEqual, 0.6)
	test.That(t, snap.Quaternion.Values[2], test.ShouldAlmostEqual, math.Sqrt(0.39))
	test.That(t, snap.Quaternion.Values[3], test.ShouldEqual, 0.)
	test.That(t, quat.Abs(s.Quaternion()), test.ShouldAlmostEqual, 1.)

	// values are clamped to the slider range
	test.That(t, s.SetSlider(ReprQuaternion, 3, 7), test.ShouldBeNil)
	assertRotation(t, s, quat.Number{Kmag: 1})
}

func TestQuaternionSlidersScalarLast(t *testing.T) {
	s := newTestState(t, func(s *Settings) { s.QuaternionOrder = spatialmath.ScalarLast })
	// display index 3 is w
	test.That(t, s.SetSlider(ReprQuaternion, 3, 0.5), test.ShouldBeNil)
	q := s.Quaternion()
	test.That(t, q.Real, test.ShouldEqual, 0.5)
	test.That(t, q.Imag, test.ShouldAlmostEqual, math.Sqrt(0.75))
	test.That(t, s.View().Quaternion.Labels, test.ShouldResemble, []string{"x", "y", "z", "w"})
}

func TestAxisAngleSliders(t *testing.T) {
	s := newTestState(t, nil)
	// at the identity the axis can still be chosen
	test.That(t, s.SetSlider(ReprAxisAngle, 1, 1), test.ShouldBeNil)
	assertRotation(t, s, quat.Number{Real: 1})
	test.That(t, s.View().AxisAngle.Values, test.ShouldResemble, []float64{0, 1, 0, 0})
	s.Blur()
	test.That(t, s.View().AxisAngle.Values, test.ShouldResemble, []float64{0, 1, 0, 0})

	test.That(t, s.SetSlider(ReprAxisAngle, 3, math.Pi/2), test.ShouldBeNil)
	assertRotation(t, s, quat.Number{Real: math.Sqrt(0.5), Jmag: math.Sqrt(0.5)})

	test.That(t, s.SetSlider(ReprAxisAngle, 2, 0.6), test.ShouldBeNil)
	aa := s.View().AxisAngle.Values
	axis := r3.Vector{X: aa[0], Y: aa[1], Z: aa[2]}
	test.That(t, axis.Norm(), test.ShouldAlmostEqual, 1.)
	test.That(t, aa[2], test.ShouldEqual, 0.6)
	test.That(t, aa[3], test.ShouldAlmostEqual, math.Pi/2)
}

func TestEulerSlidersAndGimbalLock(t *testing.T) {
	s := newTestState(t, func(s *Settings) { s.AngleUnit = Degrees })
	test.That(t, s.SetSlider(ReprEuler, 1, 120), test.ShouldBeNil)
	snap := s.View()
	test.That(t, snap.Euler.Values[1], test.ShouldEqual, 90.)
	test.That(t, snap.GimbalLocked, test.ShouldBeTrue)

	test.That(t, s.SetSlider(ReprEuler, 1, 45), test.ShouldBeNil)
	test.That(t, s.View().GimbalLocked, test.ShouldBeFalse)

	s.Reset()
	test.That(t, s.SetSlider(ReprRotationVector, 0, math.Pi/2), test.ShouldBeNil)
	assertRotation(t, s, quat.Number{Real: math.Sqrt(0.5), Imag: math.Sqrt(0.5)})
}

func TestSliderErrors(t *testing.T) {
	s := newTestState(t, nil)
	test.That(t, s.SetSlider(ReprMatrix, 0, 1), test.ShouldNotBeNil)
	test.That(t, s.SetSlider(ReprQuaternion, 4, 1), test.ShouldNotBeNil)
	test.That(t, s.SetSlider(ReprEuler, -1, 1), test.ShouldNotBeNil)
	test.That(t, s.SetSlider(ReprEuler, 0, math.NaN()), test.ShouldNotBeNil)
	test.That(t, s.SetSlider("spinor", 0, 1), test.ShouldNotBeNil)
	assertRotation(t, s, quat.Number{Real: 1})
}

func TestApplyAndSetRotation(t *testing.T) {
	s := newTestState(t, nil)
	quarter := &spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1}
	s.Apply(quarter)
	assertRotation(t, s, quarterZ)
	s.Apply(quarter)
	assertRotation(t, s, quat.Number{Kmag: 1})

	s.SetRotation(spatialmath.NewZeroOrientation())
	assertRotation(t, s, quat.Number{Real: 1})

	// Apply rotates about the fixed frame
	s.SetRotation(&spatialmath.R4AA{Theta: math.Pi / 2, RX: 1})
	s.Apply(quarter)
	want := spatialmath.Compose(quarter, &spatialmath.R4AA{Theta: math.Pi / 2, RX: 1})
	assertRotation(t, s, want.Quaternion())
	test.That(t, spatialmath.QuaternionEquivalent(s.Antipode(), s.Quaternion(), 1e-12), test.ShouldBeTrue)
}

func TestUpdateSettings(t *testing.T) {
	s := newTestState(t, nil)
	test.That(t, s.SetText(ReprAxisAngle, "[0, 0, 1, 1.5707963]"), test.ShouldBeNil)

	settings := s.Settings()
	settings.AngleUnit = Degrees
	settings.Precision = 2
	test.That(t, s.UpdateSettings(settings), test.ShouldBeNil)
	snap := s.View()
	test.That(t, snap.Active, test.ShouldEqual, Representation(""))
	test.That(t, snap.AxisAngle.Text, test.ShouldEqual, "[0.0, 0.0, 1.0, 90.0]")

	settings.Precision = -1
	test.That(t, s.UpdateSettings(settings), test.ShouldNotBeNil)
	test.That(t, s.Settings().Precision, test.ShouldEqual, 2)
}
