package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/logtrace/internal/order"
)

var raceStagger time.Duration

var raceCmd = &cobra.Command{
	Use:   "race [item...]",
	Short: "Run overlapping requests and print how they were traced.",
	Long: `Run one request per item (default: userA userB), each on its own ` +
		`goroutine, started --stagger apart. With --strategy=context every ` +
		`request logs under its own id. With --strategy=field overlapping ` +
		`requests share one id and their levels pile up.`,
	RunE: runRace,
}

func init() {
	raceCmd.Flags().DurationVar(&raceStagger, "stagger", 100*time.Millisecond, "delay between request starts")
}

func runRace(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items := args
	if len(items) == 0 {
		items = []string{"userA", "userB"}
	}

	errs := order.Simulate(cmd.Context(), clockz.RealClock, a.controller, raceStagger, items...)

	printf(cmd, "strategy: %s\n", a.cfg.Strategy)
	for i, item := range items {
		if errs[i] != nil {
			printf(cmd, "request %-8s failed: %v\n", item, errs[i])
		}
	}

	// Drain queued entries; Close is idempotent.
	a.collector.Close()

	ids := map[string]int{}
	maxLevel := 0
	for _, e := range a.collector.Snapshot() {
		ids[e.TraceID]++
		maxLevel = max(maxLevel, e.Level)
	}
	printf(cmd, "requests: %d, trace ids: %d, deepest level: %d\n", len(items), len(ids), maxLevel)
	if len(ids) < len(items) {
		printf(cmd, "overlapping requests were merged into one trace\n")
	}
	return nil
}
