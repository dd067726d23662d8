package ports

// Conduit is the hardware bridge that exposes the driver station's live state
// for one control cycle. Implementations must behave as pure snapshot
// providers: every accessor returns immediately from the latest known value
// and substitutes zero values or empty slices when the underlying source is
// unreachable. A conduit read never fails and never blocks the cycle.
type Conduit interface {
	AllianceStation() int64
	EventName() string
	GameSpecificMessage() string
	MatchNumber() int64
	ReplayNumber() int64
	MatchType() int64
	MatchTime() float64

	// ControlWord packs the robot-state flags by bit position:
	// bit 0 enabled, 1 autonomous, 2 test, 3 emergency stop,
	// 4 FMS attached, 5 DS attached.
	ControlWord() int64

	JoystickName(id int) string
	JoystickType(id int) int64
	IsXbox(id int) bool
	ButtonCount(id int) int
	ButtonValues(id int) uint32
	AxisValues(id int) []float32
	AxisTypes(id int) []int64
	POVs(id int) []int64
}

// NumJoysticks is the number of joystick slots the driver station exposes.
const NumJoysticks = 6
