package bootstrap

import (
	"context"

	"questbook/internal/pkg/clock"
	"questbook/internal/pkg/config"
	"questbook/internal/worker"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(startSweeper),
)

func NewSweeper(store worker.SweepStore, cfg config.Config, clk clock.Clock) (*worker.Sweeper, error) {
	return worker.NewSweeper(store, cfg.Booking.TimeZone, cfg.Booking.SweepInterval, clk)
}

func startSweeper(lc fx.Lifecycle, sweeper *worker.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
