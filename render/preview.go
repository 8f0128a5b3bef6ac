// Package render draws headless previews of an orientation: a reference box, the same box rotated,
// and the rotated coordinate axes.
package render

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/utils"
)

// MaxSize is the largest width or height a preview may have.
const MaxSize = 4096

// Options controls how a preview is drawn.
type Options struct {
	Width, Height int
	// BoxDims are the side lengths of the box, in scene units.
	BoxDims r3.Vector
	// AxisLength is the length of each drawn axis, in scene units.
	AxisLength float64
	// Camera orients the scene before it is projected onto the image plane. The image x axis
	// points right, y points up and the camera looks down -z.
	Camera     spatialmath.Orientation
	Background color.Color
	// BaseColor is used for the unrotated box.
	BaseColor color.Color
	// MeshColor is used for the rotated box.
	MeshColor color.Color
	// AxisColors are used for the rotated x, y and z axes. Axes pointing away from the camera are
	// faded towards Background.
	AxisColors [3]color.Color
	LineWidth  float64
	// Labels draws the axis letters at the tips of the rotated axes.
	Labels bool
}

// DefaultCamera looks at the origin from above and in front so that all three axes are visible.
func DefaultCamera() spatialmath.Orientation {
	return spatialmath.NewEulerAnglesFromDegrees(spatialmath.EulerXYZ, -60, 0, -135)
}

// DefaultOptions returns the options the preview endpoint uses.
func DefaultOptions() Options {
	return Options{
		Width:      400,
		Height:     400,
		BoxDims:    r3.Vector{X: 2, Y: 1.2, Z: 0.6},
		AxisLength: 1.6,
		Camera:     DefaultCamera(),
		Background: color.White,
		BaseColor:  color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
		MeshColor:  color.RGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xff},
		AxisColors: [3]color.Color{
			color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff},
			color.RGBA{R: 0x20, G: 0xb0, B: 0x20, A: 0xff},
			color.RGBA{R: 0x20, G: 0x40, B: 0xe0, A: 0xff},
		},
		LineWidth: 2,
		Labels:    true,
	}
}

// Validate checks that the options describe a drawable image.
func (opts Options) Validate() error {
	if opts.Width < 1 || opts.Width > MaxSize {
		return utils.NewOutOfRangeError("width", opts.Width, 1, MaxSize)
	}
	if opts.Height < 1 || opts.Height > MaxSize {
		return utils.NewOutOfRangeError("height", opts.Height, 1, MaxSize)
	}
	if !utils.IsFinite(opts.BoxDims.X, opts.BoxDims.Y, opts.BoxDims.Z, opts.AxisLength, opts.LineWidth) {
		return errors.New("preview dimensions must be finite")
	}
	if opts.BoxDims.X <= 0 || opts.BoxDims.Y <= 0 || opts.BoxDims.Z <= 0 {
		return errors.Errorf("box dimensions must be positive, got %v", opts.BoxDims)
	}
	if opts.AxisLength < 0 {
		return errors.Errorf("axis length must not be negative, got %v", opts.AxisLength)
	}
	return nil
}

// withDefaults fills any zero valued field from DefaultOptions.
func (opts Options) withDefaults() Options {
	def := DefaultOptions()
	if opts.Width == 0 {
		opts.Width = def.Width
	}
	if opts.Height == 0 {
		opts.Height = def.Height
	}
	if opts.BoxDims == (r3.Vector{}) {
		opts.BoxDims = def.BoxDims
	}
	if opts.AxisLength == 0 {
		opts.AxisLength = def.AxisLength
	}
	if opts.Camera == nil {
		opts.Camera = def.Camera
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}
	if opts.BaseColor == nil {
		opts.BaseColor = def.BaseColor
	}
	if opts.MeshColor == nil {
		opts.MeshColor = def.MeshColor
	}
	for i, c := range opts.AxisColors {
		if c == nil {
			opts.AxisColors[i] = def.AxisColors[i]
		}
	}
	if opts.LineWidth == 0 {
		opts.LineWidth = def.LineWidth
	}
	return opts
}

// projector maps scene points to pixel coordinates with an orthographic projection.
type projector struct {
	camera spatialmath.Orientation
	cx, cy float64
	scale  float64
}

func newProjector(opts Options) *projector {
	// the farthest any drawn point can be from the origin
	reach := math.Max(opts.BoxDims.Norm()/2, opts.AxisLength)
	side := math.Min(float64(opts.Width), float64(opts.Height))
	return &projector{
		camera: opts.Camera,
		cx:     float64(opts.Width) / 2,
		cy:     float64(opts.Height) / 2,
		scale:  0.45 * side / reach,
	}
}

func (p *projector) project(v r3.Vector) (float64, float64) {
	c := spatialmath.RotateVector(p.camera, v)
	return p.cx + c.X*p.scale, p.cy - c.Y*p.scale
}

// depth is the distance of v towards the camera; larger is nearer.
func (p *projector) depth(v r3.Vector) float64 {
	return spatialmath.RotateVector(p.camera, v).Z
}

func (p *projector) line(dc *gg.Context, a, b r3.Vector) {
	x1, y1 := p.project(a)
	x2, y2 := p.project(b)
	dc.DrawLine(x1, y1, x2, y2)
}

// Preview draws the reference box, the box rotated by o and the rotated axes.
func Preview(o spatialmath.Orientation, opts Options) (image.Image, error) {
	dc, err := draw(o, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG draws the preview of o and writes it to w as a PNG.
func EncodePNG(w io.Writer, o spatialmath.Orientation, opts Options) error {
	dc, err := draw(o, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(dc.EncodePNG(w), "failed to encode preview")
}

// PNG returns the preview of o as PNG bytes.
func PNG(o spatialmath.Orientation, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, o, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(o spatialmath.Orientation, opts Options) (*gg.Context, error) {
	if o == nil {
		return nil, errors.New("cannot draw a nil orientation")
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := newProjector(opts)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(opts.Background)
	dc.Clear()
	dc.SetLineCap(gg.LineCapRound)

	box := spatialmath.NewBoxMesh(opts.BoxDims)

	dc.SetColor(opts.BaseColor)
	dc.SetLineWidth(opts.LineWidth / 2)
	dc.SetDash(4, 4)
	for _, e := range box.Edges() {
		p.line(dc, e[0], e[1])
		dc.Stroke()
	}
	dc.SetDash()

	dc.SetColor(opts.MeshColor)
	dc.SetLineWidth(opts.LineWidth)
	for _, e := range box.Transform(o).Edges() {
		p.line(dc, e[0], e[1])
		dc.Stroke()
	}

	drawAxes(dc, p, o, opts)
	return dc, nil
}

// drawAxes draws the rotated axes from the farthest to the nearest so nearer axes stay on top.
func drawAxes(dc *gg.Context, p *projector, o spatialmath.Orientation, opts Options) {
	if opts.AxisLength == 0 {
		return
	}
	axes := spatialmath.BasisAxes(o, opts.AxisLength)
	order := []int{0, 1, 2}
	sort.SliceStable(order, func(i, j int) bool {
		return p.depth(axes[order[i]]) < p.depth(axes[order[j]])
	})
	labels := [3]string{"x", "y", "z"}
	for _, i := range order {
		dc.SetColor(fade(opts.AxisColors[i], opts.Background, p.depth(axes[i])/opts.AxisLength))
		dc.SetLineWidth(opts.LineWidth * 1.5)
		p.line(dc, r3.Vector{}, axes[i])
		dc.Stroke()
		if opts.Labels {
			x, y := p.project(axes[i].Mul(1.08))
			dc.DrawStringAnchored(labels[i], x, y, 0.5, 0.5)
		}
	}
}

// maxFade is how far the farthest possible axis is blended towards the background.
const maxFade = 0.4

// fade blends c towards bg by how far away it is, depth running from -1 (farthest) to 1 (nearest).
func fade(c, bg color.Color, depth float64) color.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	bgc, ok := colorful.MakeColor(bg)
	if !ok {
		return c
	}
	t := maxFade * (1 - depth) / 2
	return cc.BlendLab(bgc, math.Max(0, math.Min(maxFade, t))).Clamped()
}
