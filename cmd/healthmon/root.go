package main

import (
	"github.com/spf13/cobra"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/config"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/logger"

	"go.uber.org/zap"
)

// newRootCmd creates the root healthmon command with all subcommands
// attached.
func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "healthmon",
		Short:         "Miner health monitoring system",
		Long:          "healthmon runs the wearable monitoring loop, the receiving gateway,\nand the operator dashboard of the miner health monitoring system.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file path")

	cmd.AddCommand(
		newRunCmd(&configPath),
		newSimulateCmd(&configPath),
		newGatewayCmd(&configPath),
		newDashboardCmd(&configPath),
		newDecodeCmd(),
	)

	return cmd
}

// setup loads the configuration and builds the logger every subcommand
// starts from.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "healthmon")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
