package inputs

import (
	"fmt"

	"github.com/kevinclark/AdvantageKit/internal/app/dispatch"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// LoggedDriverStation owns the driver-station input bundle and one bundle per
// joystick slot, and runs them through the dispatcher each cycle. The bundles
// live for the whole process; only their field values change.
type LoggedDriverStation struct {
	dispatcher *dispatch.Dispatcher
	conduit    ports.Conduit

	ds        DriverStationInputs
	joysticks [ports.NumJoysticks]JoystickInputs
	prefixes  [ports.NumJoysticks]string
}

func NewLoggedDriverStation(d *dispatch.Dispatcher, c ports.Conduit) *LoggedDriverStation {
	l := &LoggedDriverStation{dispatcher: d, conduit: c}
	for id := range l.prefixes {
		l.prefixes[id] = fmt.Sprintf("DriverStation/Joystick%d", id)
	}
	return l
}

// Periodic runs once per control cycle. In record mode it snapshots the
// conduit into the bundles before dispatching; in replay mode the conduit is
// never consulted and the dispatcher refills the bundles from the log.
func (l *LoggedDriverStation) Periodic() {
	if !l.dispatcher.ReplayActive() {
		l.ds.update(l.conduit)
		for id := range l.joysticks {
			l.joysticks[id].update(l.conduit, id)
		}
	}

	l.dispatcher.ProcessInputs("DriverStation", &l.ds)
	for id := range l.joysticks {
		l.dispatcher.ProcessInputs(l.prefixes[id], &l.joysticks[id])
	}
}

// Station returns the current driver-station snapshot for control code.
func (l *LoggedDriverStation) Station() *DriverStationInputs { return &l.ds }

// Joystick returns the current snapshot for one joystick slot.
func (l *LoggedDriverStation) Joystick(id int) *JoystickInputs {
	if id < 0 || id >= ports.NumJoysticks {
		return nil
	}
	return &l.joysticks[id]
}
