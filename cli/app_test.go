package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/state"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"rotviz"}, args...))
	return out.String(), err
}

func TestConvert(t *testing.T) {
	out, err := runApp(t, "convert", "--from", "axis_angle", "--angle-unit", "deg", "[0, 0, 1, 90]")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "0.7071")
	test.That(t, out, test.ShouldContainSubstring, "axis-angle (deg)")
	test.That(t, out, test.ShouldContainSubstring, "determinant")

	t.Run("json", func(t *testing.T) {
		out, err := runApp(t, "convert", "--json", "--quat-order", "xyzw", "[0, 0, 1, 0]")
		test.That(t, err, test.ShouldBeNil)
		var snap state.Snapshot
		test.That(t, json.Unmarshal([]byte(out), &snap), test.ShouldBeNil)
		test.That(t, snap.Settings.QuaternionOrder, test.ShouldEqual, spatialmath.ScalarLast)
		test.That(t, snap.Canonical[3], test.ShouldAlmostEqual, 1)
		test.That(t, snap.Matrix.Values[0], test.ShouldAlmostEqual, -1)
		test.That(t, snap.Matrix.Values[4], test.ShouldAlmostEqual, -1)
	})

	t.Run("gimbal lock warning", func(t *testing.T) {
		out, err := runApp(t, "convert", "--from", "euler", "--angle-unit", "deg", "[10, 90, 20]")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "gimbal locked")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := runApp(t, "convert")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "needs rotation text")

		_, err = runApp(t, "convert", "[1, 0, 0]")
		test.That(t, err, test.ShouldNotBeNil)

		_, err = runApp(t, "convert", "--from", "rodrigues", "[1, 0, 0]")
		test.That(t, err, test.ShouldNotBeNil)

		_, err = runApp(t, "convert", "--precision", "99", "[1, 0, 0, 0]")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "invalid flags")

		_, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "convert", "[1, 0, 0, 0]")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestConvertUsesConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotviz.json")
	cfg := `{
		// display in degrees unless told otherwise
		defaults: {angle_unit: "deg", precision: 2},
	}`
	test.That(t, os.WriteFile(path, []byte(cfg), 0o600), test.ShouldBeNil)

	out, err := runApp(t, "--config", path, "convert", "--json", "[0.7071068, 0, 0, 0.7071068]")
	test.That(t, err, test.ShouldBeNil)
	var snap state.Snapshot
	test.That(t, json.Unmarshal([]byte(out), &snap), test.ShouldBeNil)
	test.That(t, snap.Settings.AngleUnit, test.ShouldEqual, state.Degrees)
	test.That(t, snap.Settings.Precision, test.ShouldEqual, 2)
	test.That(t, snap.AxisAngle.Values[3], test.ShouldAlmostEqual, 90, 1e-4)

	out, err = runApp(t, "--config", path, "convert", "--json", "--angle-unit", "rad", "[1, 0, 0, 0]")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, json.Unmarshal([]byte(out), &snap), test.ShouldBeNil)
	test.That(t, snap.Settings.AngleUnit, test.ShouldEqual, state.Radians)
}

func TestCheck(t *testing.T) {
	out, err := runApp(t, "check", "--samples", "50", "--seed", "7")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "euler zyx")
	test.That(t, out, test.ShouldContainSubstring, "text matrix")
	test.That(t, out, test.ShouldContainSubstring, "within")

	_, err = runApp(t, "check", "--samples", "10", "--tolerance", "-1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "exceeded")
}

func TestRunChecks(t *testing.T) {
	test.That(t, len(checkSamples(0, 3)), test.ShouldEqual, 9)
	samples := checkSamples(20, 3)
	test.That(t, len(samples), test.ShouldEqual, 29)

	again := checkSamples(20, 3)
	for i := range samples {
		test.That(t, spatialmath.AngleBetween(samples[i], again[i]), test.ShouldEqual, 0)
	}

	results, err := runChecks(samples)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(results), test.ShouldEqual, 3+len(spatialmath.EulerOrders)+len(state.Representations))
	for _, res := range results {
		test.That(t, res.max, test.ShouldBeLessThan, 1e-8)
		test.That(t, res.mean, test.ShouldBeLessThanOrEqualTo, res.max)
		test.That(t, res.p99, test.ShouldBeLessThanOrEqualTo, res.max)
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	out, err := runApp(t, "render", "--out", path, "--width", "120", "--height", "90",
		"--from", "euler", "--angle-unit", "deg", "[30, 0, 45]")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote "+path)

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()
	img, err := png.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 120)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 90)

	t.Run("identity without text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "identity.png")
		out, err := runApp(t, "render", "--out", path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "0 rad")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := runApp(t, "render", "[1, 0, 0, 0]")
		test.That(t, err, test.ShouldNotBeNil)

		_, err = runApp(t, "render", "--out", filepath.Join(t.TempDir(), "big.png"), "--width", "100000")
		test.That(t, err, test.ShouldNotBeNil)

		_, err = runApp(t, "render", "--out", filepath.Join(t.TempDir(), "missing", "dir.png"))
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestSchema(t *testing.T) {
	out, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	var schema map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &schema), test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "defaults")
}

func TestOrders(t *testing.T) {
	out, err := runApp(t, "orders")
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.That(t, len(lines), test.ShouldEqual, len(spatialmath.EulerOrders))
	test.That(t, out, test.ShouldContainSubstring, "XYZ\tintrinsic")
	test.That(t, out, test.ShouldContainSubstring, "zyx\textrinsic")
}
