package main

import (
	"context"

	"arcade-go/bus"
	"arcade-go/platform"
	"arcade-go/services/arcade"
	"arcade-go/services/config"
	"arcade-go/services/status"
)

// boot loads the board, publishes its config and starts the status reporter.
func boot(ctx context.Context, b *bus.Bus, board string) (config.Board, error) {
	ctx = context.WithValue(ctx, config.CtxDeviceKey, board)
	cfg, err := config.NewConfigService().Start(ctx, b.NewConnection("config"))
	if err != nil {
		return config.Board{}, err
	}
	status.New().Start(ctx, b.NewConnection("status"))
	return cfg, nil
}

// run drives the render loop until it fails or ctx ends.
func run(ctx context.Context, b *bus.Bus, cfg config.Board, p *platform.Peripherals) error {
	chs, err := arcade.OpenChannels(cfg.Arcade, p.Sinks)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range chs {
			c.Close()
		}
	}()
	loop, err := arcade.New(cfg.Arcade, p.Hardware(arcade.Transmitters(chs)), arcade.WithBus(b.NewConnection("arcade")))
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}
