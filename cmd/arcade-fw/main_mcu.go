//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"arcade-go/bus"
	"arcade-go/platform"
	"arcade-go/x/logx"
)

const board = "pico"

var log = logx.New("main")

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	log.Info("boot", "board", board)

	ctx := context.Background()
	b := bus.NewBus(8)
	cfg, err := boot(ctx, b, board)
	if err != nil {
		halt(err)
	}
	p, err := platform.Open(cfg)
	if err != nil {
		halt(err)
	}
	halt(run(ctx, b, cfg, p))
}

// halt parks the firmware after a fatal error; the watchdog-free board
// keeps its last frame lit.
func halt(err error) {
	log.Error("halted", "err", err)
	for {
		time.Sleep(time.Hour)
	}
}
