package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rotviz/state"
)

// ConvertAction is the corresponding Action for 'convert'.
func ConvertAction(c *cli.Context) error {
	logger := newLogger(c)
	if c.NArg() == 0 {
		return errors.New("convert needs rotation text, e.g. rotviz convert '[1, 0, 0, 0]'")
	}
	st, err := stateFromArgs(c, logger)
	if err != nil {
		return err
	}
	st.Blur()
	snap := st.View()
	if c.Bool(convertFlagJSON) {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		printf(c.App.Writer, "%s", data)
		return nil
	}
	printf(c.App.Writer, "%s", snapshotTable(snap))
	if snap.GimbalLocked {
		warningf(c.App.Writer, "euler angles %s are gimbal locked; one outer angle was fixed at 0", snap.Settings.EulerOrder)
	}
	return nil
}

// snapshotTable renders every view of a snapshot, one row per representation.
func snapshotTable(snap state.Snapshot) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Representation", "Components", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.Bold}},
	})

	unit := string(snap.Settings.AngleUnit)
	row := func(name string, v state.View) {
		t.AppendRow(table.Row{name, strings.Join(v.Labels, " "), v.Text})
	}
	row("quaternion", snap.Quaternion)
	row("quaternion (antipode)", snap.Antipode)
	row(fmt.Sprintf("axis-angle (%s)", unit), snap.AxisAngle)
	row("rotation vector (rad)", snap.RotationVector)
	row("matrix", snap.Matrix)
	row(fmt.Sprintf("euler %s (%s)", snap.Settings.EulerOrder, unit), snap.Euler)
	t.AppendSeparator()
	t.AppendRow(table.Row{"determinant", "", fmt.Sprintf("%.*f", snap.Settings.Precision, snap.Determinant)})
	return t.Render()
}
