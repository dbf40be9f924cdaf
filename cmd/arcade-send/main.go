// Command arcade-send streams frames to the cabinet over a serial port.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"arcade-go/host/ambient"
	"arcade-go/platform"
	"arcade-go/protocol"
	"arcade-go/services/config"
)

var (
	portName   = ""
	listPorts  = false
	baud       = config.DefaultBaud
	fps        = 30
	pattern    = "rainbow"
	colourName = "green"
	imagePath  = ""
	cellSize   = ambient.DefaultCell
	count      = 15
	audioPath  = ""
	sampleRate = 48000
	trigger    = false
	frames     = 0
	verbose    = false
)

func init() {
	pflag.StringVarP(&portName, "port", "p", portName, "serial device, e.g. /dev/ttyACM0")
	pflag.BoolVarP(&listPorts, "list", "l", listPorts, "list serial ports and exit")
	pflag.IntVar(&baud, "baud", baud, "baud rate")
	pflag.IntVar(&fps, "fps", fps, "frames per second")
	pflag.StringVar(&pattern, "pattern", pattern, "off | solid | rainbow | image")
	pflag.StringVar(&colourName, "colour", colourName, "palette colour for the solid pattern")
	pflag.StringVar(&imagePath, "image", imagePath, "PNG or JPEG sampled by the image pattern")
	pflag.IntVar(&cellSize, "cell", cellSize, "image cell edge in pixels")
	pflag.IntVarP(&count, "count", "n", count, "pixels per frame")
	pflag.StringVar(&audioPath, "audio", audioPath, "raw little-endian float32 mono PCM driving the trigger")
	pflag.IntVar(&sampleRate, "sample-rate", sampleRate, "sample rate of --audio")
	pflag.BoolVar(&trigger, "trigger", trigger, "hold the trigger on")
	pflag.IntVar(&frames, "frames", frames, "stop after this many frames (0: run until interrupted)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	if listPorts {
		ports, err := platform.ListPorts()
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	if portName == "" {
		return fmt.Errorf("no --port given (see --list)")
	}
	if fps <= 0 {
		return fmt.Errorf("--fps must be positive")
	}
	src, err := newSource(pattern)
	if err != nil {
		return err
	}
	trig, err := newTrigger()
	if err != nil {
		return err
	}

	port, err := platform.OpenSerial(portName, baud)
	if err != nil {
		return err
	}
	defer port.Close()
	logger.Info("sending", "port", portName, "pattern", pattern, "fps", fps, "count", count)

	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()

	var buf []byte
	for i := 0; frames == 0 || i < frames; i++ {
		px, err := src.next(i)
		if err != nil {
			return err
		}
		f := protocol.Frame{Trigger: trig.next(), Pixels: px}
		if buf, err = protocol.AppendFrame(buf[:0], f); err != nil {
			return err
		}
		if _, err := port.Write(buf); err != nil {
			return fmt.Errorf("write %s: %w", portName, err)
		}
		logger.Debug("frame", "n", i, "trigger", f.Trigger, "bytes", len(buf))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
