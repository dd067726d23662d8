package inputs

import (
	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// Control word bit positions. These are part of the wire agreement with the
// conduit and must not change.
const (
	controlEnabled = 1 << iota
	controlAutonomous
	controlTest
	controlEmergencyStop
	controlFMSAttached
	controlDSAttached
)

// DriverStationInputs is the driver-station state bundle that needs to be
// captured throughout the match. The table keys below are persisted format;
// renaming one breaks replay of existing logs.
type DriverStationInputs struct {
	AllianceStation     int64
	EventName           string
	GameSpecificMessage string
	MatchNumber         int64
	ReplayNumber        int64
	MatchType           int64
	MatchTime           float64

	Enabled       bool
	Autonomous    bool
	Test          bool
	EmergencyStop bool
	FMSAttached   bool
	DSAttached    bool
}

func (d *DriverStationInputs) Capture(table *domain.Table) {
	table.PutInt("AllianceStation", d.AllianceStation)
	table.PutString("EventName", d.EventName)
	table.PutString("GameSpecificMessage", d.GameSpecificMessage)
	table.PutInt("MatchNumber", d.MatchNumber)
	table.PutInt("ReplayNumber", d.ReplayNumber)
	table.PutInt("MatchType", d.MatchType)
	table.PutFloat("MatchTime", d.MatchTime)

	table.PutBool("Enabled", d.Enabled)
	table.PutBool("Autonomous", d.Autonomous)
	table.PutBool("Test", d.Test)
	table.PutBool("EmergencyStop", d.EmergencyStop)
	table.PutBool("FMSAttached", d.FMSAttached)
	table.PutBool("DSAttached", d.DSAttached)
}

func (d *DriverStationInputs) Restore(table *domain.Table) {
	d.AllianceStation = table.GetInt("AllianceStation", d.AllianceStation)
	d.EventName = table.GetString("EventName", d.EventName)
	d.GameSpecificMessage = table.GetString("GameSpecificMessage", d.GameSpecificMessage)
	d.MatchNumber = table.GetInt("MatchNumber", d.MatchNumber)
	d.ReplayNumber = table.GetInt("ReplayNumber", d.ReplayNumber)
	d.MatchType = table.GetInt("MatchType", d.MatchType)
	d.MatchTime = table.GetFloat("MatchTime", d.MatchTime)

	d.Enabled = table.GetBool("Enabled", d.Enabled)
	d.Autonomous = table.GetBool("Autonomous", d.Autonomous)
	d.Test = table.GetBool("Test", d.Test)
	d.EmergencyStop = table.GetBool("EmergencyStop", d.EmergencyStop)
	d.FMSAttached = table.GetBool("FMSAttached", d.FMSAttached)
	d.DSAttached = table.GetBool("DSAttached", d.DSAttached)
}

// update snapshots the live driver-station state, decoding the packed
// control word into its flag fields.
func (d *DriverStationInputs) update(c ports.Conduit) {
	d.AllianceStation = c.AllianceStation()
	d.EventName = c.EventName()
	d.GameSpecificMessage = c.GameSpecificMessage()
	d.MatchNumber = c.MatchNumber()
	d.ReplayNumber = c.ReplayNumber()
	d.MatchType = c.MatchType()
	d.MatchTime = c.MatchTime()

	word := c.ControlWord()
	d.Enabled = word&controlEnabled != 0
	d.Autonomous = word&controlAutonomous != 0
	d.Test = word&controlTest != 0
	d.EmergencyStop = word&controlEmergencyStop != 0
	d.FMSAttached = word&controlFMSAttached != 0
	d.DSAttached = word&controlDSAttached != 0
}

var _ ports.Capturable = (*DriverStationInputs)(nil)
