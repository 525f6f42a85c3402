package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/monitor"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sim"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

func newSimulateCmd(configPath *string) *cobra.Command {
	var (
		cycles int
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the monitoring loop against a simulated wearer",
		Long:  "simulate drives the full pipeline with synthesized vitals: periodic\nlow-SpO2, elevated-heart-rate, and fall anomalies, plus a battery model.\nCycles run back to back without the real monitoring delays.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			battery := sim.NewBattery()
			wearer := sim.NewWearer(seed,
				sim.WithWearerLogger(log.Named("wearer")),
				sim.WithBattery(battery),
			)

			agg := vitals.NewAggregator(wearer, wearer, wearer, wearer, cfg.MotionFlags,
				vitals.WithAggregatorLogger(log))

			sender := telemetry.NewChanSender(cycles + 1)
			ctl := monitor.New(agg, sender, cfg.Thresholds, cfg.Monitor,
				monitor.WithLogger(log),
				monitor.WithPower(wearer),
				// The simulated wearer needs no warm-up; elapse every
				// wait immediately.
				monitor.WithTimer(func(time.Duration) <-chan time.Time {
					ch := make(chan time.Time, 1)
					ch <- time.Time{}
					return ch
				}),
			)

			out := cmd.OutOrStdout()
			for i := 1; i <= cycles; i++ {
				res := ctl.Step()
				fmt.Fprintln(out, renderCycle(i, res, battery.Level()))
			}

			sender.Close()
			transmitted := 0
			for frame := range sender.Packets() {
				report, err := telemetry.Decode(frame)
				if err != nil {
					return err
				}
				transmitted++
				fmt.Fprintln(out, renderTransmission(transmitted, report))
			}

			fmt.Fprintf(out, "\n%d cycles, %d transmissions, battery %.1f%%\n",
				cycles, transmitted, battery.Level())
			return nil
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 30, "number of measurement cycles to run")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the wearer model")
	return cmd
}
