package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kevinclark/AdvantageKit/pkg/advantagekit"
)

func main() {
	flow, err := advantagekit.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callback := func(batch []advantagekit.CycleRecord) error {
		for _, rec := range batch {
			fmt.Printf("%s cycle=%d prefix=%s values=%v\n",
				rec.Timestamp.Format(time.RFC3339Nano),
				rec.Cycle,
				rec.Prefix,
				rec.Values,
			)
		}
		return nil
	}

	if err := flow.Run(ctx, advantagekit.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
