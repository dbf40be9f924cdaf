//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"arcade-go/bus"
	"arcade-go/effects"
	"arcade-go/led"
	"arcade-go/platform"
	"arcade-go/protocol"
	"arcade-go/x/logx"
)

var (
	boardID    = "host-sim"
	serialName = ""
	render     = false
	demoFPS    = 0
	verbose    = false
)

func init() {
	pflag.StringVarP(&boardID, "board", "b", boardID, "embedded board config to run")
	pflag.StringVarP(&serialName, "serial", "s", serialName, "serial device to read frames from (default: in-memory link)")
	pflag.BoolVar(&render, "render", render, "draw strips to stdout with ANSI colours")
	pflag.IntVar(&demoFPS, "demo-fps", demoFPS, "feed generated frames into the in-memory link at this rate")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
	logx.SetLevel(logx.Level(level))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := simulate(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

func simulate(ctx context.Context) error {
	b := bus.NewBus(16)
	cfg, err := boot(ctx, b, boardID)
	if err != nil {
		return fmt.Errorf("boot %s: %w", boardID, err)
	}

	opt := platform.HostOptions{SerialName: serialName}
	if render {
		opt.OnFrame = newTerminal(os.Stdout, len(cfg.Arcade.Strips)).draw
	}
	h, err := platform.OpenHost(cfg, opt)
	if err != nil {
		return err
	}
	defer h.Close()

	if h.Link != nil && demoFPS > 0 {
		go feedDemo(ctx, h.Link, cfg.Arcade.Strips[0].Length, demoFPS)
	}
	return run(ctx, b, cfg, &h.Peripherals)
}

// feedDemo plays the host side of the link: a scrolling rainbow with the
// trigger raised once a second.
func feedDemo(ctx context.Context, link *platform.Loopback, n, fps int) {
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()
	px := make([]led.Pixel, n)
	var buf []byte
	for i := 0; ; i++ {
		for j := range px {
			px[j] = effects.HSV(float64((i*4+j*24)%360), 100, 100)
		}
		buf, _ = protocol.AppendFrame(buf[:0], protocol.Frame{Trigger: i%fps == 0, Pixels: px})
		if _, err := link.WriteContext(ctx, buf); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// terminal draws one line of colour blocks per strip, redrawing in place.
type terminal struct {
	mu    sync.Mutex
	w     io.Writer
	lines []string
	last  time.Time
}

func newTerminal(w io.Writer, strips int) *terminal {
	return &terminal{w: w, lines: make([]string, strips)}
}

func (t *terminal) draw(strip int, px []led.Pixel) {
	var sb strings.Builder
	for _, p := range px {
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", p.R, p.G, p.B)
	}
	sb.WriteString("\x1b[0m")

	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines[strip] = sb.String()
	if time.Since(t.last) < 50*time.Millisecond {
		return
	}
	t.last = time.Now()
	for _, l := range t.lines {
		fmt.Fprintf(t.w, "\r\x1b[2K%s\n", l)
	}
	fmt.Fprintf(t.w, "\x1b[%dA", len(t.lines))
}
