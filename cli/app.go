// Package cli contains the rotviz command line: conversions, consistency checks, previews and the
// server.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/rotviz/spatialmath"
	"go.viam.com/rotviz/state"
)

// Flags.
const (
	configFlag = "config"
	debugFlag  = "debug"

	convertFlagFrom      = "from"
	convertFlagJSON      = "json"
	settingsFlagOrder    = "quat-order"
	settingsFlagUnit     = "angle-unit"
	settingsFlagEuler    = "euler"
	settingsFlagPrec     = "precision"
	checkFlagSamples     = "samples"
	checkFlagSeed        = "seed"
	checkFlagTolerance   = "tolerance"
	renderFlagOut        = "out"
	renderFlagWidth      = "width"
	renderFlagHeight     = "height"
	serveFlagBindAddress = "bind"
)

// settingsFlags select the display conventions; unset flags fall back to the config file's
// defaults.
var settingsFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  settingsFlagOrder,
		Usage: "quaternion component order: wxyz or xyzw",
	},
	&cli.StringFlag{
		Name:  settingsFlagUnit,
		Usage: "angle unit: rad or deg",
	},
	&cli.StringFlag{
		Name:  settingsFlagEuler,
		Usage: "euler order, uppercase for intrinsic (XYZ) and lowercase for extrinsic (xyz)",
	},
	&cli.IntFlag{
		Name:  settingsFlagPrec,
		Usage: "decimals to print",
	},
}

var app = &cli.App{
	Name:            "rotviz",
	Usage:           "convert between and inspect 3D rotation representations",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "convert",
			Usage:     "print a rotation in every representation",
			ArgsUsage: "<rotation text>",
			UsageText: "rotviz convert --from axis_angle --angle-unit deg '[0, 0, 1, 90]'",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  convertFlagFrom,
					Value: string(state.ReprQuaternion),
					Usage: "representation of the input: quaternion, axis_angle, rotation_vector, matrix or euler",
				},
				&cli.BoolFlag{
					Name:  convertFlagJSON,
					Usage: "print the full snapshot as JSON",
				},
			}, settingsFlags...),
			Action: ConvertAction,
		},
		{
			Name:  "check",
			Usage: "round trip random rotations through every representation and report the errors",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  checkFlagSamples,
					Value: 1000,
					Usage: "number of random rotations",
				},
				&cli.Int64Flag{
					Name:  checkFlagSeed,
					Value: 1,
					Usage: "random seed",
				},
				&cli.Float64Flag{
					Name:  checkFlagTolerance,
					Value: 1e-6,
					Usage: "largest acceptable round trip error, in radians",
				},
			},
			Action: CheckAction,
		},
		{
			Name:      "render",
			Usage:     "draw a PNG preview of a rotation",
			ArgsUsage: "[rotation text]",
			Flags: append([]cli.Flag{
				&cli.PathFlag{
					Name:     renderFlagOut,
					Required: true,
					Usage:    "PNG file to write",
				},
				&cli.StringFlag{
					Name:  convertFlagFrom,
					Value: string(state.ReprQuaternion),
					Usage: "representation of the input",
				},
				&cli.IntFlag{
					Name:  renderFlagWidth,
					Value: 400,
					Usage: "image width in pixels",
				},
				&cli.IntFlag{
					Name:  renderFlagHeight,
					Value: 400,
					Usage: "image height in pixels",
				},
			}, settingsFlags...),
			Action: RenderAction,
		},
		{
			Name:  "serve",
			Usage: "run the HTTP API",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  serveFlagBindAddress,
					Usage: "address to listen on, overriding the config file",
				},
			},
			Action: ServeAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of the config file",
			Action: SchemaAction,
		},
		{
			Name:  "orders",
			Usage: "list the supported euler orders",
			Action: func(c *cli.Context) error {
				for _, o := range spatialmath.EulerOrders {
					kind := "intrinsic"
					if o.Extrinsic() {
						kind = "extrinsic"
					}
					printf(c.App.Writer, "%s\t%s", o, kind)
				}
				return nil
			},
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
