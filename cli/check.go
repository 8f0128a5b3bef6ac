package cli

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/state"
	"go.viam.com/rotviz/textformat"
)

// roundTrip converts an orientation into one representation and back.
type roundTrip struct {
	name string
	fn   func(o spatialmath.Orientation) (spatialmath.Orientation, error)
}

// checkResult summarizes the errors, in radians, of one round trip over every sample.
type checkResult struct {
	name   string
	mean   float64
	p99    float64
	max    float64
	stddev float64
}

func roundTrips() []roundTrip {
	trips := []roundTrip{
		{"axis_angle", func(o spatialmath.Orientation) (spatialmath.Orientation, error) { return o.AxisAngles(), nil }},
		{"rotation_vector", func(o spatialmath.Orientation) (spatialmath.Orientation, error) { return o.RotationVector(), nil }},
		{"matrix", func(o spatialmath.Orientation) (spatialmath.Orientation, error) { return o.RotationMatrix(), nil }},
	}
	for _, order := range spatialmath.EulerOrders {
		trips = append(trips, roundTrip{
			name: "euler " + string(order),
			fn: func(o spatialmath.Orientation) (spatialmath.Orientation, error) {
				return o.EulerAngles(order), nil
			},
		})
	}
	for _, repr := range state.Representations {
		trips = append(trips, roundTrip{name: "text " + string(repr), fn: textRoundTrip(repr)})
	}
	return trips
}

// textRoundTrip formats the orientation as the visualizer shows it, in degrees where there are
// angles, and parses the text back.
func textRoundTrip(repr state.Representation) func(o spatialmath.Orientation) (spatialmath.Orientation, error) {
	settings := state.DefaultSettings()
	settings.AngleUnit = state.Degrees
	settings.Precision = textformat.MaxPrecision
	return func(o spatialmath.Orientation) (spatialmath.Orientation, error) {
		src, err := state.New(settings)
		if err != nil {
			return nil, err
		}
		src.SetRotation(o)
		snap := src.View()
		view, ok := lo.Find(snap.Views(), func(v *state.View) bool { return v.Repr == repr })
		if !ok {
			return nil, errors.Errorf("no %s view", repr)
		}
		dst, err := state.New(settings)
		if err != nil {
			return nil, err
		}
		if err := dst.SetText(repr, view.Text); err != nil {
			return nil, errors.Wrapf(err, "parsing %q", view.Text)
		}
		return dst.Orientation(), nil
	}
}

// checkSamples returns the fixed edge cases followed by n random rotations drawn from seed.
func checkSamples(n int, seed int64) []spatialmath.Orientation {
	half := math.Sqrt(0.5)
	fixed := []quat.Number{
		{Real: 1},
		{Real: 1, Imag: 1e-9},
		{Imag: 1},
		{Jmag: 1},
		{Kmag: 1},
		{Real: half, Kmag: half},
		{Real: half, Jmag: half},
		{Real: -half, Imag: half},
		{Real: 0.5, Imag: 0.5, Jmag: 0.5, Kmag: 0.5},
	}
	r := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		fixed = append(fixed, quat.Number{Real: r.NormFloat64(), Imag: r.NormFloat64(), Jmag: r.NormFloat64(), Kmag: r.NormFloat64()})
	}
	out := make([]spatialmath.Orientation, 0, len(fixed))
	for _, q := range fixed {
		o, err := spatialmath.NewQuaternionFromNumber(q)
		if err != nil {
			// a random draw of exactly zero; skip it
			continue
		}
		out = append(out, o)
	}
	return out
}

// runChecks measures every round trip over samples.
func runChecks(samples []spatialmath.Orientation) ([]checkResult, error) {
	trips := roundTrips()
	results := make([]checkResult, 0, len(trips))
	for _, trip := range trips {
		errs := make([]float64, 0, len(samples))
		for _, o := range samples {
			back, err := trip.fn(o)
			if err != nil {
				return nil, errors.Wrapf(err, "%s round trip of %s", trip.name, describeOrientation(o))
			}
			errs = append(errs, spatialmath.AngleBetween(o, back))
		}
		res, err := summarize(trip.name, errs)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func summarize(name string, errs []float64) (checkResult, error) {
	res := checkResult{name: name}
	var err error
	if res.mean, err = stats.Mean(errs); err != nil {
		return res, err
	}
	if res.p99, err = stats.Percentile(errs, 99); err != nil {
		return res, err
	}
	if res.max, err = stats.Max(errs); err != nil {
		return res, err
	}
	if res.stddev, err = stats.StandardDeviation(errs); err != nil {
		return res, err
	}
	return res, nil
}

// CheckAction is the corresponding Action for 'check'.
func CheckAction(c *cli.Context) error {
	logger := newLogger(c)
	tolerance := c.Float64(checkFlagTolerance)
	samples := checkSamples(c.Int(checkFlagSamples), c.Int64(checkFlagSeed))
	logger.Debugw("checking round trips", "samples", len(samples), "seed", c.Int64(checkFlagSeed))

	results, err := runChecks(samples)
	if err != nil {
		return err
	}

	failed := color.New(color.FgRed, color.Bold).SprintFunc()
	passed := color.New(color.FgGreen).SprintFunc()
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Round trip", "Mean", "P99", "Max", "Std dev", ""})
	var failures []string
	for _, res := range results {
		status := passed("ok")
		if res.max > tolerance {
			status = failed("FAIL")
			failures = append(failures, res.name)
		}
		t.AppendRow(table.Row{
			res.name,
			fmt.Sprintf("%.3g", res.mean),
			fmt.Sprintf("%.3g", res.p99),
			fmt.Sprintf("%.3g", res.max),
			fmt.Sprintf("%.3g", res.stddev),
			status,
		})
	}
	printf(c.App.Writer, "%s", t.Render())
	if len(failures) > 0 {
		return errors.Errorf("%d round trips exceeded %g rad: %v", len(failures), tolerance, failures)
	}
	okf(c.App.Writer, "%d round trips over %d rotations within %g rad", len(results), len(samples), tolerance)
	return nil
}
