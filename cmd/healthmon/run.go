package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/bus"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/monitor"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/ads1292r"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/icm42688"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/max30102"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/sensor/tmp117"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/telemetry"
	"github.com/Criz-007/miner-health-monitoring-system/pkg/vitals"
)

// powerPair adapts a driver's PowerOn/PowerOff pair to the controller's
// wake/sleep contract.
type powerPair struct {
	on  func() error
	off func() error
}

func (p powerPair) Wakeup() error { return p.on() }
func (p powerPair) Sleep() error  { return p.off() }

type namedInit struct {
	name string
	init func() error
}

// initSensors brings every sensor up. A failed init is logged and the
// sensor stays uninitialized; its readings degrade to safe defaults
// instead of halting the loop. Returns how many sensors failed.
func initSensors(log *zap.Logger, sensors []namedInit) int {
	failed := 0
	for _, s := range sensors {
		if err := s.init(); err != nil {
			failed++
			log.Warn("sensor init failed, continuing degraded",
				zap.String("sensor", s.name), zap.Error(err))
		}
	}
	return failed
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the monitoring loop on real hardware",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			freq := physic.Frequency(cfg.Bus.SPIFreqHz) * physic.Hertz

			ecgBus, err := bus.OpenSPI(cfg.Bus.SPIPort, "ads1292r", freq, spi.Mode1, ads1292r.Framing())
			if err != nil {
				return err
			}
			defer ecgBus.Close()

			imuBus, err := bus.OpenSPI(cfg.Bus.SPIPortIMU, "icm42688", freq, spi.Mode3, icm42688.Framing())
			if err != nil {
				return err
			}
			defer imuBus.Close()

			oxBus, err := bus.OpenI2C(cfg.Bus.I2CBus, "max30102", cfg.Oximeter.Addr)
			if err != nil {
				return err
			}
			defer oxBus.Close()

			tmpBus, err := bus.OpenI2C(cfg.Bus.I2CBus, "tmp117", cfg.Thermometer.Addr)
			if err != nil {
				return err
			}
			defer tmpBus.Close()

			ox := max30102.New(oxBus, cfg.Oximeter, max30102.WithLogger(log.Named("max30102")))
			ecg := ads1292r.New(ecgBus, cfg.ECG, ads1292r.WithLogger(log.Named("ads1292r")))
			thermo := tmp117.New(tmpBus, cfg.Thermometer, tmp117.WithLogger(log.Named("tmp117")))
			imu := icm42688.New(imuBus, cfg.Motion, icm42688.WithLogger(log.Named("icm42688")))

			initSensors(log, []namedInit{
				{"max30102", ox.Init},
				{"ads1292r", ecg.Init},
				{"tmp117", thermo.Init},
				{"icm42688", imu.Init},
			})

			sender, err := telemetry.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud, log.Named("uplink"))
			if err != nil {
				return err
			}
			defer sender.Close()

			agg := vitals.NewAggregator(ox, ecg, thermo, imu, cfg.MotionFlags,
				vitals.WithAggregatorLogger(log))

			ctl := monitor.New(agg, sender, cfg.Thresholds, cfg.Monitor,
				monitor.WithLogger(log),
				monitor.WithPower(
					powerPair{ox.PowerOn, ox.PowerOff},
					powerPair{ecg.PowerOn, ecg.PowerOff},
					thermo,
					imu,
				),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("monitoring started", zap.String("uplink", cfg.Serial.Port))
			if err := ctl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("monitoring stopped")
			return nil
		},
	}
}
