package inputs

import (
	"reflect"
	"testing"

	"github.com/kevinclark/AdvantageKit/internal/domain"
)

func TestDriverStationCaptureRestoreRoundTrip(t *testing.T) {
	src := &DriverStationInputs{
		AllianceStation:     2,
		EventName:           "casf",
		GameSpecificMessage: "RLR",
		MatchNumber:         47,
		ReplayNumber:        1,
		MatchType:           2,
		MatchTime:           87.3,
		Enabled:             true,
		Autonomous:          false,
		Test:                true,
		FMSAttached:         true,
	}

	table := domain.NewTable()
	src.Capture(table)

	dst := &DriverStationInputs{}
	dst.Restore(table)

	if !reflect.DeepEqual(src, dst) {
		t.Fatalf("round trip changed state:\n%+v\n%+v", src, dst)
	}
}

func TestDriverStationRestoreMissingKeysKeepsValues(t *testing.T) {
	ds := &DriverStationInputs{EventName: "week0", MatchTime: 12.5, Enabled: true}

	partial := domain.NewTable()
	partial.PutFloat("MatchTime", 11.0)
	ds.Restore(partial)

	if ds.MatchTime != 11.0 {
		t.Fatalf("present key must win, got %f", ds.MatchTime)
	}
	if ds.EventName != "week0" || !ds.Enabled {
		t.Fatalf("missing keys must keep prior values: %+v", ds)
	}
}

func TestControlWordDecode(t *testing.T) {
	conduit := &fakeConduit{controlWord: 0b100101}

	ds := &DriverStationInputs{}
	ds.update(conduit)

	if !ds.Enabled || ds.Autonomous || !ds.Test || ds.EmergencyStop || ds.FMSAttached || !ds.DSAttached {
		t.Fatalf("control word 0b100101 decoded wrong: %+v", ds)
	}
}
