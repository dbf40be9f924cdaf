// Package config resolves a board's embedded JSON document into runtime
// settings and publishes them on the bus for the services that follow them.
package config

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"time"

	"arcade-go/bus"
	"arcade-go/effects"
	"arcade-go/errcode"
	"arcade-go/led"
	"arcade-go/services/arcade"
	"arcade-go/x/logx"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for the board ID

	DefaultBaud = 115200
)

//go:embed boards/*.json
var boards embed.FS

// EmbeddedConfigLookup allows overriding how board documents are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, err := boards.ReadFile("boards/" + board + ".json")
	return b, err == nil
}

// Pins are the board's peripheral GPIO numbers. Strip pins live in the
// strip list.
type Pins struct {
	UARTTx int `json:"uart_tx"`
	UARTRx int `json:"uart_rx"`
	Left   int `json:"left"`
	Mid    int `json:"mid"`
	Right  int `json:"right"`
	Haptic int `json:"haptic"`
}

// Status configures the periodic status report.
type Status struct {
	Interval time.Duration
}

// Board is a fully resolved board configuration.
type Board struct {
	ID     string
	Baud   uint32
	Pins   Pins
	Status Status
	Arcade arcade.Config
}

type stripDoc struct {
	Name   string `json:"name"`
	Pin    int    `json:"pin"`
	Length int    `json:"length"`
}

type boardDoc struct {
	Baud          uint32         `json:"baud"`
	TickMs        int            `json:"tick_ms"`
	ReadTimeoutMs int            `json:"read_timeout_ms"`
	DebounceMs    int            `json:"debounce_ms"`
	Mode          effects.Mode   `json:"mode"`
	Palette       string         `json:"palette"`
	PaletteModes  []effects.Mode `json:"palette_modes"`
	Strips        []stripDoc     `json:"strips"`
	QueueDepth    int            `json:"queue_depth"`
	BlockSymbols  int            `json:"block_symbols"`
	MaxPixels     int            `json:"max_pixels"`
	ScanBudget    int            `json:"scan_budget"`
	StatsEvery    int            `json:"stats_every"`
	InvertButtons bool           `json:"invert_buttons"`
	Pins          Pins           `json:"pins"`
	Status        struct {
		IntervalMs int `json:"interval_ms"`
	} `json:"status"`
}

// defaultDoc seeds decoding so that absent keys keep their defaults. Strips
// stay nil: decoding into a populated slice would merge element fields.
func defaultDoc() boardDoc {
	c := arcade.DefaultConfig()
	d := boardDoc{
		Baud:          DefaultBaud,
		TickMs:        int(c.Tick / time.Millisecond),
		ReadTimeoutMs: int(c.ReadTimeout / time.Millisecond),
		DebounceMs:    int(c.Debounce / time.Millisecond),
		Mode:          c.Mode,
		Palette:       led.DefaultPalette[c.PaletteIndex].Name,
		PaletteModes:  c.PaletteModes,
		QueueDepth:    c.QueueDepth,
		BlockSymbols:  c.BlockSymbols,
		MaxPixels:     c.MaxPixels,
		ScanBudget:    c.ScanBudget,
		StatsEvery:    c.StatsEvery,
		Pins:          Pins{UARTTx: 0, UARTRx: 1, Left: 10, Mid: 11, Right: 12, Haptic: 15},
	}
	d.Status.IntervalMs = 5000
	return d
}

// Load resolves the embedded document for board.
func Load(board string) (Board, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Board{}, errcode.New(errcode.InvalidConfig, "config.load", "no embedded config for board "+board)
	}
	return Parse(board, raw)
}

// Parse decodes a board document, filling absent keys from defaults and
// validating the result.
func Parse(board string, raw []byte) (Board, error) {
	doc := defaultDoc()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Board{}, errcode.Wrap(errcode.InvalidConfig, "config.parse", err)
	}

	idx, ok := led.DefaultPalette.Lookup(doc.Palette)
	if !ok {
		return Board{}, errcode.New(errcode.InvalidConfig, "config.parse", "unknown palette colour "+doc.Palette)
	}
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	cfg := arcade.Config{
		Tick:          ms(doc.TickMs),
		ReadTimeout:   ms(doc.ReadTimeoutMs),
		Debounce:      ms(doc.DebounceMs),
		Mode:          doc.Mode,
		PaletteIndex:  idx,
		PaletteModes:  doc.PaletteModes,
		QueueDepth:    doc.QueueDepth,
		BlockSymbols:  doc.BlockSymbols,
		MaxPixels:     doc.MaxPixels,
		ScanBudget:    doc.ScanBudget,
		StatsEvery:    doc.StatsEvery,
		InvertButtons: doc.InvertButtons,
	}
	for _, s := range doc.Strips {
		cfg.Strips = append(cfg.Strips, arcade.StripConfig{Name: s.Name, Pin: s.Pin, Length: s.Length})
	}
	if doc.Strips == nil {
		cfg.Strips = arcade.DefaultConfig().Strips
	}
	if err := cfg.Validate(); err != nil {
		return Board{}, err
	}
	if doc.Status.IntervalMs < 0 {
		return Board{}, errcode.New(errcode.InvalidConfig, "config.parse", "negative status interval")
	}
	return Board{
		ID:     board,
		Baud:   doc.Baud,
		Pins:   doc.Pins,
		Status: Status{Interval: ms(doc.Status.IntervalMs)},
		Arcade: cfg,
	}, nil
}

// ConfigService publishes the resolved board sections as retained messages
// under config/<section>.
type ConfigService struct {
	Name string
	log  *logx.Logger
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName, log: logx.New(serviceName)}
}

func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) (Board, error) {
	board, _ := ctx.Value(CtxDeviceKey).(string)
	if board == "" {
		return Board{}, errcode.New(errcode.InvalidParams, "config.publish", "missing board ID in context")
	}
	b, err := Load(board)
	if err != nil {
		return Board{}, err
	}
	conn.Publish(&bus.Message{Topic: bus.T(configPrefix, "arcade"), Payload: b.Arcade, Retained: true})
	conn.Publish(&bus.Message{Topic: bus.T(configPrefix, "pins"), Payload: b.Pins, Retained: true})
	conn.Publish(&bus.Message{Topic: bus.T(configPrefix, "status"), Payload: b.Status, Retained: true})
	return b, nil
}

// Start loads the board named in ctx and publishes it. The resolved board is
// returned so callers can bring up hardware before other services start.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) (Board, error) {
	b, err := s.publishConfig(ctx, conn)
	if err != nil {
		s.log.Error("load failed", "err", err.Error())
		return Board{}, err
	}
	s.log.Info("loaded", "board", b.ID, "strips", len(b.Arcade.Strips), "mode", b.Arcade.Mode.String())
	return b, nil
}
