package main

import (
	"context"
	"fmt"
	"log"
	"os"

	advantagekit "github.com/kevinclark/AdvantageKit"
)

// Replays a recorded session and prints the driver-station state the control
// code observes on every cycle. Hardware is never touched.
func main() {
	source := "../../data/wal"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	cfg := &advantagekit.Config{
		Replay:  advantagekit.ReplayConfig{Enabled: true, Source: source},
		Metrics: advantagekit.MetricsConfig{Addr: ":9100"},
	}

	rt, err := advantagekit.NewRuntime(cfg)
	if err != nil {
		log.Fatalf("open recorded session: %v", err)
	}

	ds := rt.DriverStation()
	err = rt.Run(context.Background(), func() error {
		station := ds.Station()
		fmt.Printf("cycle=%d enabled=%t auto=%t match_time=%.2f\n",
			rt.Dispatcher().Cycle(), station.Enabled, station.Autonomous, station.MatchTime)
		return nil
	})
	if err != nil {
		log.Fatalf("replay error: %v", err)
	}
}
