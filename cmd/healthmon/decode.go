package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <hex-frame>",
		Short: "Decode a telemetry frame given as hex bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaned := strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(strings.ToLower(args[0]))
			data, err := hex.DecodeString(cleaned)
			if err != nil {
				return fmt.Errorf("invalid hex: %w", err)
			}

			r, err := telemetry.Decode(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:       %s\n", renderStatus(r.Status.String()))
			fmt.Fprintf(out, "spo2:         %d %%\n", r.SpO2)
			fmt.Fprintf(out, "heart rate:   %d bpm\n", r.HeartRate)
			fmt.Fprintf(out, "blood press.: %d/%d mmHg\n", r.Systolic, r.Diastolic)
			fmt.Fprintf(out, "temperature:  %.2f °C\n", r.Temperature)
			fmt.Fprintf(out, "fall:         %v\n", r.FallDetected)
			fmt.Fprintf(out, "no movement:  %v\n", r.NoMovement)
			return nil
		},
	}
}
