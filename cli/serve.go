package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/rotviz/config"
	"go.viam.com/rotviz/web/server"
)

// ServeAction is the corresponding Action for 'serve'.
func ServeAction(c *cli.Context) error {
	return server.Run(c.Context, server.Arguments{
		ConfigFile:  c.String(configFlag),
		BindAddress: c.String(serveFlagBindAddress),
		Debug:       c.Bool(debugFlag),
	}, newLogger(c))
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", data)
	return nil
}
