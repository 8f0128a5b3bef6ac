package state

import (
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/sliders"
	"go.viam.com/rotviz/spatialmath"
)

var matrixLabels = []string{"r00", "r01", "r02", "r10", "r11", "r12", "r20", "r21", "r22"}

// View is one rotation representation as shown to the user.
type View struct {
	Repr    Representation   `json:"repr"`
	Labels  []string         `json:"labels"`
	Values  []float64        `json:"values"`
	Text    string           `json:"text"`
	Sliders []sliders.Config `json:"sliders,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// FieldError points an input error at the view it came from.
type FieldError struct {
	Field   Representation `json:"field"`
	Message string         `json:"error"`
}

// Snapshot is every view of the current rotation.
type Snapshot struct {
	Settings       Settings       `json:"settings"`
	Canonical      [4]float64     `json:"canonical"`
	Quaternion     View           `json:"quaternion"`
	Antipode       View           `json:"antipode"`
	AxisAngle      View           `json:"axis_angle"`
	RotationVector View           `json:"rotation_vector"`
	Matrix         View           `json:"matrix"`
	Determinant    float64        `json:"determinant"`
	Euler          View           `json:"euler"`
	GimbalLocked   bool           `json:"gimbal_locked"`
	Active         Representation `json:"active,omitempty"`
	Error          *FieldError    `json:"error,omitempty"`
}

// Views returns the five representation views in display order.
func (snap *Snapshot) Views() []*View {
	return []*View{&snap.Quaternion, &snap.AxisAngle, &snap.RotationVector, &snap.Matrix, &snap.Euler}
}

// View derives every representation from the canonical rotation. The view being edited shows
// what the user entered rather than the rewritten value.
func (s *State) View() Snapshot {
	prec := s.settings.Precision
	q := s.q
	snap := Snapshot{
		Settings:  s.settings,
		Canonical: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
		Active:    s.active,
	}

	order := s.settings.QuaternionOrder
	qFormat := s.vectorFormats[ReprQuaternion]
	snap.Quaternion = s.vectorView(ReprQuaternion, order.Labels())
	anti := order.Components(spatialmath.Antipode(q))
	snap.Antipode = View{Repr: ReprQuaternion, Labels: order.Labels(), Values: anti, Text: qFormat.Format(anti, prec)}

	aaLabels := []string{"x", "y", "z", "angle"}
	snap.AxisAngle = s.vectorView(ReprAxisAngle, aaLabels)
	snap.RotationVector = s.vectorView(ReprRotationVector, []string{"x", "y", "z"})

	rm := spatialmath.QuatToRotationMatrix(q)
	values := rm.Values()
	snap.Matrix = View{
		Repr:   ReprMatrix,
		Labels: matrixLabels,
		Values: values[:],
		Text:   s.matrixFormat.Format(values, prec),
	}
	snap.Determinant = rm.Det()

	snap.Euler = s.vectorView(ReprEuler, s.settings.EulerOrder.Labels())
	ea := spatialmath.QuatToEulerAngles(q, s.settings.EulerOrder)
	snap.GimbalLocked = ea.GimbalLocked(s.settings.GimbalTolerance)

	if s.active == ReprMatrix && s.activeText != nil {
		snap.Matrix.Text = *s.activeText
	}
	if s.lastErr != nil {
		snap.Error = &FieldError{Field: s.lastErr.Repr, Message: s.lastErr.Err.Error()}
		for _, v := range snap.Views() {
			if v.Repr == s.lastErr.Repr {
				v.Error = snap.Error.Message
			}
		}
	}
	return snap
}

func (s *State) vectorView(repr Representation, labels []string) View {
	v := View{
		Repr:    repr,
		Labels:  labels,
		Values:  s.derivedValues(repr),
		Sliders: s.SliderConfigs(repr),
	}
	if s.active == repr && s.activeValues != nil {
		v.Values = append([]float64(nil), s.activeValues...)
	}
	v.Text = s.vectorFormats[repr].Format(v.Values, s.settings.Precision)
	if s.active == repr && s.activeText != nil {
		v.Text = *s.activeText
	}
	return v
}

// Antipode returns the other quaternion describing the same rotation.
func (s *State) Antipode() quat.Number {
	return spatialmath.Antipode(s.q)
}
