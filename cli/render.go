package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/rotviz/render"
)

// RenderAction is the corresponding Action for 'render'.
func RenderAction(c *cli.Context) (err error) {
	logger := newLogger(c)
	st, err := stateFromArgs(c, logger)
	if err != nil {
		return err
	}
	opts := render.DefaultOptions()
	opts.Width = c.Int(renderFlagWidth)
	opts.Height = c.Int(renderFlagHeight)
	if err := opts.Validate(); err != nil {
		return err
	}

	path := c.Path(renderFlagOut)
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create preview file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	if err := render.EncodePNG(f, st.Orientation(), opts); err != nil {
		return errors.Wrapf(err, "could not render %s", path)
	}
	logger.Debugw("wrote preview", "path", path, "width", opts.Width, "height", opts.Height)
	printf(c.App.Writer, "wrote %s: %s", path, describeOrientation(st.Orientation()))
	return nil
}
