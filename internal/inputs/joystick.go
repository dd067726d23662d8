package inputs

import (
	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// JoystickInputs is the input bundle for a single joystick slot. Array
// lengths follow whatever the conduit (or the recorded log) reports for the
// cycle; a controller swap mid-session simply changes the lengths.
type JoystickInputs struct {
	Name       string
	Type       int64
	Xbox       bool
	Buttons    []bool
	AxisValues []float64
	AxisTypes  []int64
	POVs       []int64
}

func (j *JoystickInputs) Capture(table *domain.Table) {
	table.PutString("Name", j.Name)
	table.PutInt("Type", j.Type)
	table.PutBool("Xbox", j.Xbox)
	table.PutBoolArray("Buttons", j.Buttons)
	table.PutFloatArray("AxisValues", j.AxisValues)
	table.PutIntArray("AxisTypes", j.AxisTypes)
	table.PutIntArray("POVs", j.POVs)
}

func (j *JoystickInputs) Restore(table *domain.Table) {
	j.Name = table.GetString("Name", j.Name)
	j.Type = table.GetInt("Type", j.Type)
	j.Xbox = table.GetBool("Xbox", j.Xbox)
	j.Buttons = table.GetBoolArray("Buttons", j.Buttons)
	j.AxisValues = table.GetFloatArray("AxisValues", j.AxisValues)
	j.AxisTypes = table.GetIntArray("AxisTypes", j.AxisTypes)
	j.POVs = table.GetIntArray("POVs", j.POVs)
}

// update snapshots one joystick slot, widening raw float32 axes and
// unpacking the button bitmask.
func (j *JoystickInputs) update(c ports.Conduit, id int) {
	j.Name = c.JoystickName(id)
	j.Type = c.JoystickType(id)
	j.Xbox = c.IsXbox(id)
	j.AxisTypes = c.AxisTypes(id)
	j.POVs = c.POVs(id)

	raw := c.AxisValues(id)
	j.AxisValues = make([]float64, len(raw))
	for i, v := range raw {
		j.AxisValues[i] = float64(v)
	}

	buttons := c.ButtonValues(id)
	count := c.ButtonCount(id)
	j.Buttons = make([]bool, count)
	for i := 0; i < count; i++ {
		j.Buttons[i] = (buttons>>uint(i))&1 != 0
	}
}

var _ ports.Capturable = (*JoystickInputs)(nil)
