package config

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/rotviz/state"
	"go.viam.com/rotviz/textformat"
)

// QuaternionParam is the URL parameter holding the initial rotation as quaternion text.
const QuaternionParam = "q"

// queryParams are the URL parameters that map onto state.Settings, by their json tags.
var queryParams = []string{"repr", "quat_order", "angle_unit", "euler", "precision", "gimbal_tol"}

// Query is what a visualizer URL selects: display settings and an optional initial rotation.
type Query struct {
	Settings state.Settings
	// Quaternion is quaternion text in the selected order, or empty for the identity.
	Quaternion string
}

// SettingsFromQuery overlays URL parameters on base. Numbers may be given as text, as they always
// are in a URL. Unknown parameters are ignored; invalid values are errors.
func SettingsFromQuery(values url.Values, base state.Settings) (Query, error) {
	input := map[string]interface{}{}
	for _, key := range queryParams {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			input[key] = v
		}
	}

	settings, err := SettingsFromMap(input, base)
	if err != nil {
		return Query{}, errors.Wrap(err, "invalid URL parameters")
	}
	return Query{Settings: settings, Quaternion: values.Get(QuaternionParam)}, nil
}

// SettingsFromMap overlays the keys of input, named by the settings' json tags, on base and
// normalizes the result. Values may be strings wherever a number is expected.
func SettingsFromMap(input map[string]interface{}, base state.Settings) (state.Settings, error) {
	out := base
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &out,
	})
	if err != nil {
		return state.Settings{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return state.Settings{}, err
	}
	return out.Normalize()
}

// NewState returns a state with the query's settings, at the query's rotation.
func (q Query) NewState() (*state.State, error) {
	st, err := state.New(q.Settings)
	if err != nil {
		return nil, err
	}
	if err := q.Apply(st); err != nil {
		return nil, err
	}
	return st, nil
}

// Apply sets st to the query's rotation, if it has one. The quaternion view is then released
// so it shows the normalized value.
func (q Query) Apply(st *state.State) error {
	if strings.TrimSpace(q.Quaternion) == "" {
		return nil
	}
	if err := st.SetText(state.ReprQuaternion, q.Quaternion); err != nil {
		return err
	}
	st.Blur()
	return nil
}

// EncodeQuery returns the URL parameters that reproduce a snapshot's settings and rotation.
func EncodeQuery(snap state.Snapshot) url.Values {
	s := snap.Settings
	values := url.Values{}
	values.Set("repr", string(s.Representation))
	values.Set("quat_order", string(s.QuaternionOrder))
	values.Set("angle_unit", string(s.AngleUnit))
	values.Set("euler", string(s.EulerOrder))
	values.Set("precision", strconv.Itoa(s.Precision))
	values.Set("gimbal_tol", strconv.FormatFloat(s.GimbalTolerance, 'g', -1, 64))
	c := snap.Canonical
	components := s.QuaternionOrder.Components(quat.Number{Real: c[0], Imag: c[1], Jmag: c[2], Kmag: c[3]})
	format := textformat.DefaultVectorFormat()
	values.Set(QuaternionParam, format.Format(components, textformat.MaxPrecision))
	return values
}
