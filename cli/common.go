package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rotviz/config"
	"go.viam.com/rotviz/logging"
	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/state"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// okf prints a message prefixed with a green check.
func okf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	color.New(color.FgGreen).Fprint(w, "ok ")
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(debugFlag) {
		return logging.NewDebugLogger("rotviz")
	}
	return logging.NewLogger("rotviz")
}

// loadConfig reads the file named by --config, or returns the default config.
func loadConfig(c *cli.Context, logger logging.Logger) (*config.Config, error) {
	path := c.String(configFlag)
	if path == "" {
		return config.Default(), nil
	}
	return config.Read(c.Context, path, logger)
}

// settingsFromFlags overlays the settings flags that were given on the config's defaults.
func settingsFromFlags(c *cli.Context, logger logging.Logger) (state.Settings, error) {
	cfg, err := loadConfig(c, logger)
	if err != nil {
		return state.Settings{}, err
	}
	input := map[string]interface{}{}
	if c.IsSet(settingsFlagOrder) {
		input["quat_order"] = c.String(settingsFlagOrder)
	}
	if c.IsSet(settingsFlagUnit) {
		input["angle_unit"] = c.String(settingsFlagUnit)
	}
	if c.IsSet(settingsFlagEuler) {
		input["euler"] = c.String(settingsFlagEuler)
	}
	if c.IsSet(settingsFlagPrec) {
		input["precision"] = c.Int(settingsFlagPrec)
	}
	if c.IsSet(convertFlagFrom) {
		input["repr"] = c.String(convertFlagFrom)
	}
	settings, err := config.SettingsFromMap(input, cfg.Defaults)
	if err != nil {
		return state.Settings{}, errors.Wrap(err, "invalid flags")
	}
	return settings, nil
}

// stateFromArgs builds a state from the settings flags and sets it from the text arguments, read
// as the --from representation. No text leaves the identity.
func stateFromArgs(c *cli.Context, logger logging.Logger) (*state.State, error) {
	settings, err := settingsFromFlags(c, logger)
	if err != nil {
		return nil, err
	}
	st, err := state.New(settings)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return st, nil
	}
	from, err := state.ParseRepresentation(c.String(convertFlagFrom))
	if err != nil {
		return nil, err
	}
	if err := st.SetText(from, text); err != nil {
		return nil, err
	}
	logger.Debugw("parsed rotation", "from", from, "quaternion", st.Quaternion())
	return st, nil
}

func describeOrientation(o spatialmath.Orientation) string {
	aa := o.AxisAngles()
	return fmt.Sprintf("%.6g rad about (%.4g, %.4g, %.4g)", aa.Theta, aa.RX, aa.RY, aa.RZ)
}
