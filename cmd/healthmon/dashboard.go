package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/gateway"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/monitor"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sim"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = map[string]lipgloss.Style{
		"NORMAL":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		"WARNING":   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		"CRITICAL":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		"EMERGENCY": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Blink(true),
	}
)

func renderStatus(status string) string {
	style, ok := statusStyle[status]
	if !ok {
		return status
	}
	return style.Render(status)
}

// renderCycle formats one simulated monitoring cycle as a single line.
func renderCycle(n int, res monitor.Result, battery float64) string {
	s := res.Snapshot
	line := fmt.Sprintf("cycle %3d  %-9s  SpO2 %3d%%  HR %3d bpm  BP %d/%d  %.2f °C  batt %.1f%%",
		n, res.Status, s.SpO2, s.HeartRate, s.Systolic, s.Diastolic, s.Temperature, battery)
	line = strings.Replace(line, res.Status.String(), renderStatus(res.Status.String()), 1)
	if s.FallDetected {
		line += "  " + statusStyle["EMERGENCY"].Render("FALL")
	}
	if res.Transmitted {
		line += dimStyle.Render("  [tx]")
	}
	return line
}

// renderTransmission formats one decoded uplink frame.
func renderTransmission(n int, r telemetry.Report) string {
	return fmt.Sprintf("tx %2d      %-9s  SpO2 %3d%%  HR %3d bpm  BP %d/%d  %.2f °C",
		n, renderStatus(r.Status.String()), r.SpO2, r.HeartRate, r.Systolic, r.Diastolic, r.Temperature)
}

// renderRecords formats the dashboard table of recent reports.
func renderRecords(records []gateway.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MINER HEALTH MONITOR"))
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString(dimStyle.Render("no reports yet"))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range records {
		flags := ""
		if r.Fall {
			flags += "  FALL"
		}
		if r.NoMovement {
			flags += "  NO-MOVEMENT"
		}
		fmt.Fprintf(&b, "%s  %-20s  SpO2 %3d%%  HR %3d bpm  BP %d/%d  %.2f °C%s\n",
			r.ReceivedAt.Format("15:04:05"),
			renderStatus(r.Status),
			r.SpO2, r.HeartRate, r.Systolic, r.Diastolic, r.Temperature,
			statusStyle["EMERGENCY"].Render(flags),
		)
	}
	return b.String()
}

// renderPowerTable formats the static sensor power budget.
func renderPowerTable() string {
	table := sim.PowerTable()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(titleStyle.Render("SENSOR POWER BUDGET"))
	b.WriteString("\n")
	for _, name := range names {
		p := table[name]
		fmt.Fprintf(&b, "%-10s  %6.2f mW  eff %2d%%  heat %.2f mW\n",
			name, p.PowerMW, p.EfficiencyPc, p.HeatMW)
	}
	return b.String()
}

func newDashboardCmd(configPath *string) *cobra.Command {
	var (
		limit   int
		refresh time.Duration
		once    bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render recent reports from the gateway database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := gateway.OpenStore(cfg.Gateway.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			for {
				records, err := store.Recent(limit)
				if err != nil {
					return err
				}

				if !once {
					// Clear and home between refreshes.
					fmt.Fprint(out, "\033[2J\033[H")
				}
				fmt.Fprintln(out, renderRecords(records))
				fmt.Fprintln(out, renderPowerTable())

				if once {
					return nil
				}
				select {
				case <-ctx.Done():
					if errors.Is(ctx.Err(), context.Canceled) {
						return nil
					}
					return ctx.Err()
				case <-time.After(refresh):
				}
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 15, "number of recent reports to show")
	cmd.Flags().DurationVar(&refresh, "refresh", 2*time.Second, "refresh interval")
	cmd.Flags().BoolVar(&once, "once", false, "render once and exit")
	return cmd
}
