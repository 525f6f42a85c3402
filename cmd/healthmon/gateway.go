package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Criz-007/miner-health-monitoring-system/pkg/gateway"
)

func newGatewayCmd(configPath *string) *cobra.Command {
	var withMQTT bool

	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Receive telemetry from the serial link and persist it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			port, err := gateway.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
			if err != nil {
				return err
			}
			defer port.Close()

			store, err := gateway.OpenStore(cfg.Gateway.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			sinks := []gateway.Sink{store}
			if withMQTT {
				pub, err := gateway.NewPublisher(gateway.MQTTOptions{
					Broker:   cfg.MQTT.Broker,
					Topic:    cfg.MQTT.Topic,
					Username: cfg.MQTT.Username,
					Password: cfg.MQTT.Password,
				}, log.Named("mqtt"))
				if err != nil {
					return err
				}
				defer pub.Close()
				sinks = append(sinks, pub)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			packets := make(chan []byte, 16)
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return gateway.Receive(ctx, port, packets) })
			g.Go(func() error {
				return gateway.New(packets, sinks, gateway.WithLogger(log)).Run(ctx)
			})

			log.Info("gateway started",
				zap.String("port", cfg.Serial.Port),
				zap.String("db", cfg.Gateway.DBPath),
				zap.Bool("mqtt", withMQTT),
			)
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("gateway stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withMQTT, "mqtt", false, "republish reports to the MQTT broker")
	return cmd
}
