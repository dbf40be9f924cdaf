package protocol

import (
	"context"
	"errors"
	"time"

	"arcade-go/errcode"
	"arcade-go/led"
	"arcade-go/x/logx"
)

// Port is the receive half of a UART. RecvSomeContext blocks until at least
// one byte is available or ctx is done, returning ctx.Err() in the latter case.
type Port interface {
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

type Config struct {
	ReadTimeout time.Duration // per read; default 10ms
	ScanBudget  int           // bytes examined per Poll; default 1024
	MaxPixels   int           // largest accepted count; default and ceiling 255
}

func (c *Config) applyDefaults() error {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Millisecond
	}
	if c.ScanBudget <= 0 {
		c.ScanBudget = 1024
	}
	if c.MaxPixels == 0 {
		c.MaxPixels = led.MaxLen
	}
	if c.MaxPixels < 0 || c.MaxPixels > led.MaxLen {
		return errcode.New(errcode.InvalidParams, "parser.new", "max pixels out of range")
	}
	return nil
}

// Stats counts parser outcomes since construction.
type Stats struct {
	Frames  uint32
	Drops   uint32
	Scanned uint64
}

// Parser finds marker-delimited frames in a byte stream. It owns a fixed
// payload buffer and never holds more than one frame.
type Parser struct {
	port Port
	cfg  Config
	log  *logx.Logger

	window  [markerLen]byte
	payload []byte
	pixels  []led.Pixel

	// bytes received from the port but not yet examined
	rx     [64]byte
	rxHead int
	rxTail int

	stats Stats
}

func NewParser(port Port, cfg Config) (*Parser, error) {
	if port == nil {
		return nil, errcode.New(errcode.InvalidParams, "parser.new", "nil port")
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &Parser{
		port:    port,
		cfg:     cfg,
		log:     logx.New("protocol"),
		payload: make([]byte, cfg.MaxPixels*3),
		pixels:  make([]led.Pixel, 0, cfg.MaxPixels),
	}, nil
}

// Push shifts b into the marker window and reports whether the window now
// holds the marker exactly.
func (p *Parser) Push(b byte) bool {
	copy(p.window[:], p.window[1:])
	p.window[markerLen-1] = b
	return string(p.window[:]) == Marker
}

// Window returns a copy of the current sliding window.
func (p *Parser) Window() [markerLen]byte { return p.window }

func (p *Parser) Stats() Stats { return p.stats }

// Poll scans for at most one frame. It returns (frame, true, nil) on success
// and (_, false, nil) when the port went quiet, a partial frame was dropped,
// or the scan budget ran out. Errors are fatal payload violations, port
// failures or ctx cancellation.
func (p *Parser) Poll(ctx context.Context) (Frame, bool, error) {
	for scanned := 0; scanned < p.cfg.ScanBudget; scanned++ {
		b, err := p.readByte(ctx)
		if err != nil {
			if errcode.Of(err) == errcode.Timeout {
				return Frame{}, false, nil
			}
			return Frame{}, false, err
		}
		p.stats.Scanned++
		if !p.Push(b) {
			continue
		}
		f, err := p.readBody(ctx)
		switch {
		case err == nil:
			p.window = [markerLen]byte{}
			p.stats.Frames++
			return f, true, nil
		case errcode.Of(err) == errcode.ProtocolDrop:
			p.stats.Drops++
			p.log.Debug("frame dropped", "err", err.Error())
			return Frame{}, false, nil
		default:
			return Frame{}, false, err
		}
	}
	return Frame{}, false, nil
}

func (p *Parser) readBody(ctx context.Context) (Frame, error) {
	var hdr [2]byte
	if err := p.readFull(ctx, hdr[:]); err != nil {
		return Frame{}, p.dropErr("header", err)
	}
	count := int(hdr[1])
	if count > p.cfg.MaxPixels {
		return Frame{}, errcode.New(errcode.PayloadTooLarge, "parser.poll", "pixel count exceeds payload buffer")
	}
	buf := p.payload[:count*3]
	if err := p.readFull(ctx, buf); err != nil {
		return Frame{}, p.dropErr("payload", err)
	}
	px := p.pixels[:count]
	for i := range px {
		px[i] = led.Pixel{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2]}
	}
	return Frame{Trigger: hdr[0] != 0, Pixels: px}, nil
}

// dropErr turns a mid-frame timeout into ProtocolDrop and passes anything
// else through.
func (p *Parser) dropErr(stage string, err error) error {
	if errcode.Of(err) == errcode.Timeout {
		return &errcode.E{C: errcode.ProtocolDrop, Op: "parser.poll", Msg: stage, Err: err}
	}
	return err
}

func (p *Parser) readFull(ctx context.Context, dst []byte) error {
	for i := range dst {
		b, err := p.readByte(ctx)
		if err != nil {
			return err
		}
		dst[i] = b
	}
	return nil
}

// readByte serves from the staging buffer, refilling it with one bounded
// read when empty. A read that outlives ReadTimeout is errcode.Timeout.
func (p *Parser) readByte(ctx context.Context) (byte, error) {
	if p.rxHead < p.rxTail {
		b := p.rx[p.rxHead]
		p.rxHead++
		return b, nil
	}
	rctx, cancel := context.WithTimeout(ctx, p.cfg.ReadTimeout)
	n, err := p.port.RecvSomeContext(rctx, p.rx[:])
	cancel()
	if n > 0 {
		p.rxHead, p.rxTail = 1, n
		return p.rx[0], nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return 0, cerr
	}
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errcode.Of(err) == errcode.Timeout {
		return 0, errcode.Timeout
	}
	if errcode.Of(err) != errcode.Error {
		return 0, err // already classified by the port
	}
	return 0, errcode.Wrap(errcode.Error, "parser.read", err)
}
