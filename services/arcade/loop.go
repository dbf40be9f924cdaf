// Package arcade runs the cabinet's render loop: poll the host link, read
// the buttons, render every strip and queue it for output, once per tick.
package arcade

import (
	"context"
	"time"

	"arcade-go/bus"
	"arcade-go/debounce"
	"arcade-go/effects"
	"arcade-go/errcode"
	"arcade-go/led"
	"arcade-go/protocol"
	"arcade-go/x/logx"
	"arcade-go/x/mathx"
)

var (
	TopicState = bus.T("arcade", "state")
	TopicFrame = bus.T("arcade", "frame")
	TopicTick  = bus.T("arcade", "tick")
)

// StateEvent is published retained on TopicState whenever the mode or
// palette selection changes.
type StateEvent struct {
	Mode         string
	PaletteIndex int
	Colour       string
}

// FrameEvent is published for every frame received from the host.
type FrameEvent struct {
	Trigger bool
	Pixels  int
}

// TickEvent carries running counters every Config.StatsEvery ticks.
type TickEvent struct {
	Ticks      uint64
	Frames     uint32
	Drops      uint32
	Scanned    uint64
	ReadErrors uint32
	Offset     uint16
}

// readErrLogEvery thins repeated serial read warnings.
const readErrLogEvery = 100

type Option func(*Loop)

// WithBus publishes telemetry through conn.
func WithBus(conn *bus.Connection) Option { return func(l *Loop) { l.conn = conn } }

// WithPalette replaces the default palette.
func WithPalette(p led.Palette) Option { return func(l *Loop) { l.pal = p } }

// Loop owns all mutable render state. It is not safe for concurrent use;
// Step and Run must be called from one goroutine.
type Loop struct {
	cfg  Config
	hw   Hardware
	pal  led.Palette
	conn *bus.Connection
	log  *logx.Logger

	parser *protocol.Parser
	strips []*led.Strip

	left, mid, right *debounce.Filter

	state  effects.State
	haptic bool
	ticks  uint64

	readErrs uint32 // total non-fatal read failures
	errRun   uint32 // consecutive failures since the last clean poll
}

func New(cfg Config, hw Hardware, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := hw.validate(len(cfg.Strips)); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg: cfg,
		hw:  hw,
		pal: led.DefaultPalette,
		log: logx.New("arcade"),
	}
	for _, o := range opts {
		o(l)
	}
	if cfg.PaletteIndex >= l.pal.Len() {
		return nil, errcode.New(errcode.InvalidConfig, "arcade.new", "palette index out of range")
	}

	p, err := protocol.NewParser(hw.Serial, protocol.Config{
		ReadTimeout: cfg.ReadTimeout,
		ScanBudget:  cfg.ScanBudget,
		MaxPixels:   cfg.MaxPixels,
	})
	if err != nil {
		return nil, err
	}
	l.parser = p

	for _, sc := range cfg.Strips {
		s, err := led.NewStrip(sc.Length)
		if err != nil {
			return nil, err
		}
		l.strips = append(l.strips, s)
	}

	var opt []debounce.Option
	if cfg.InvertButtons {
		opt = append(opt, debounce.Inverted())
	}
	l.left = debounce.New(cfg.Debounce, opt...)
	l.mid = debounce.New(cfg.Debounce, opt...)
	l.right = debounce.New(cfg.Debounce, opt...)

	l.state = effects.State{Mode: cfg.Mode, PaletteIndex: cfg.PaletteIndex}
	l.publishState()
	return l, nil
}

// State returns a copy of the current render state.
func (l *Loop) State() effects.State { return l.state }

// Strip exposes strip i for inspection.
func (l *Loop) Strip(i int) *led.Strip { return l.strips[i] }

func (l *Loop) Haptic() bool { return l.haptic }

func (l *Loop) Ticks() uint64 { return l.ticks }

// ReadErrors counts serial reads that failed without stopping the loop.
func (l *Loop) ReadErrors() uint32 { return l.readErrs }

// Step runs one tick. It returns an error only when the loop must stop:
// a fatal condition (see errcode.IsFatal) or cancellation of ctx.
func (l *Loop) Step(ctx context.Context) error {
	f, ok, err := l.parser.Poll(ctx)
	switch {
	case err != nil && (errcode.IsFatal(err) || ctx.Err() != nil):
		return err
	case err != nil:
		l.readFailed(err)
	default:
		if l.errRun > 0 {
			l.log.Info("serial read recovered", "failures", l.errRun)
			l.errRun = 0
		}
	}
	if ok {
		l.haptic = f.Trigger
		l.publish(TopicFrame, FrameEvent{Trigger: f.Trigger, Pixels: len(f.Pixels)}, false)
	}

	l.readButtons()

	// Staged after the buttons so a press into Sync shows this tick's frame.
	var src []led.Pixel
	if ok && l.state.Mode == effects.Sync {
		src = f.Pixels
	}

	for i, s := range l.strips {
		// Sync without a new frame holds what was last shown.
		if l.state.Mode != effects.Sync || src != nil {
			if err := effects.Render(s, l.state, l.pal, src); err != nil {
				return err
			}
		}
		if err := l.hw.Strips[i].Send(ctx, s.Bytes()); err != nil {
			return err
		}
	}
	l.hw.Haptic.Set(l.haptic)

	l.state.Advance()
	l.ticks++
	if n := l.cfg.StatsEvery; n > 0 && l.ticks%uint64(n) == 0 {
		st := l.parser.Stats()
		l.publish(TopicTick, TickEvent{
			Ticks:      l.ticks,
			Frames:     st.Frames,
			Drops:      st.Drops,
			Scanned:    st.Scanned,
			ReadErrors: l.readErrs,
			Offset:     l.state.Offset,
		}, false)
	}
	return nil
}

func (l *Loop) readFailed(err error) {
	l.readErrs++
	l.errRun++
	if l.errRun == 1 || l.errRun%readErrLogEvery == 0 {
		l.log.Warn("serial read failed", "err", err.Error(), "consecutive", l.errRun)
	}
}

func (l *Loop) readButtons() {
	dt := l.cfg.Tick
	changed := false
	if l.left.Check(dt, l.hw.Left.Get()) {
		l.state.Mode = l.state.Mode.Prev()
		changed = true
	}
	if l.right.Check(dt, l.hw.Right.Get()) {
		l.state.Mode = l.state.Mode.Next()
		changed = true
	}
	if l.mid.Check(dt, l.hw.Mid.Get()) && l.cfg.cyclesPalette(l.state.Mode) {
		l.state.PaletteIndex = mathx.Wrap(l.state.PaletteIndex, 1, l.pal.Len())
		changed = true
	}
	if changed {
		l.log.Info("state", "mode", l.state.Mode.String(), "palette", l.state.PaletteIndex)
		l.publishState()
	}
}

// Run steps once per Tick until a fatal error or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	t := time.NewTicker(l.cfg.Tick)
	defer t.Stop()
	l.log.Info("running", "mode", l.state.Mode.String(), "strips", len(l.strips))
	for {
		if err := l.Step(ctx); err != nil {
			if ctx.Err() == nil {
				l.log.Error("loop stopped", "err", err.Error())
			}
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (l *Loop) publishState() {
	l.publish(TopicState, StateEvent{
		Mode:         l.state.Mode.String(),
		PaletteIndex: l.state.PaletteIndex,
		Colour:       l.pal[l.state.PaletteIndex].Name,
	}, true)
}

func (l *Loop) publish(t bus.Topic, payload any, retained bool) {
	if l.conn == nil {
		return
	}
	l.conn.Publish(&bus.Message{Topic: t, Payload: payload, Retained: retained})
}
