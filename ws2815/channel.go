package ws2815

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"arcade-go/errcode"
	"arcade-go/x/logx"
)

// Sink drives symbols onto one output. WriteSymbols is called from the
// channel worker with at most BlockSymbols symbols per call, in order.
type Sink interface {
	WriteSymbols(syms []Symbol) error
}

// ChannelConfig centralises queue sizing and timings for one strip output.
type ChannelConfig struct {
	Name         string
	QueueDepth   int           // transmissions in flight; default 4
	BlockSymbols int           // symbols handed to the sink per pull; >= 8, default 64
	RetryWait    time.Duration // one bounded wait for a slot before QueueFull; default 10ms
	Symbols      SymbolSet
}

// Channel is a bounded asynchronous transmit queue. Send copies the caller's
// bytes into a queue slot, so the caller may re-render its strip as soon as
// Send returns while the worker drains the copy.
type Channel struct {
	cfg  ChannelConfig
	sink Sink
	log  *logx.Logger

	free  chan []byte
	queue chan []byte

	mu    sync.Mutex
	fault error

	sent    atomic.Uint32
	symbols atomic.Uint64

	stopOnce sync.Once
	stop     chan struct{}
	stopped  chan struct{}
}

func NewChannel(sink Sink, cfg ChannelConfig) (*Channel, error) {
	if sink == nil {
		return nil, errcode.New(errcode.InvalidParams, "channel.new", "nil sink")
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 4
	}
	if cfg.BlockSymbols == 0 {
		cfg.BlockSymbols = 64
	}
	if cfg.BlockSymbols < SymbolsPerByte {
		return nil, errcode.New(errcode.InvalidParams, "channel.new", "block smaller than one byte")
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 10 * time.Millisecond
	}
	if cfg.Symbols == (SymbolSet{}) {
		set, err := DefaultTiming.Symbols()
		if err != nil {
			return nil, err
		}
		cfg.Symbols = set
	}
	c := &Channel{
		cfg:     cfg,
		sink:    sink,
		log:     logx.New("ws2815"),
		free:    make(chan []byte, cfg.QueueDepth),
		queue:   make(chan []byte, cfg.QueueDepth),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for i := 0; i < cfg.QueueDepth; i++ {
		c.free <- make([]byte, 0, 3*64)
	}
	go c.run()
	return c, nil
}

// Send queues one transmission of data. If every slot is busy it waits once
// for RetryWait and then fails with errcode.QueueFull. After a sink failure
// every Send returns the recorded errcode.ChannelFault.
func (c *Channel) Send(ctx context.Context, data []byte) error {
	if err := c.Err(); err != nil {
		return err
	}
	var slot []byte
	select {
	case slot = <-c.free:
	default:
		t := time.NewTimer(c.cfg.RetryWait)
		defer t.Stop()
		select {
		case slot = <-c.free:
		case <-t.C:
			return errcode.New(errcode.QueueFull, c.cfg.Name, "no free transmit slot")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	slot = append(slot[:0], data...)
	c.queue <- slot
	return nil
}

// Flush waits until every queued transmission has been handed to the sink.
func (c *Channel) Flush(ctx context.Context) error {
	held := make([][]byte, 0, c.cfg.QueueDepth)
	defer func() {
		for _, s := range held {
			c.free <- s
		}
	}()
	for len(held) < c.cfg.QueueDepth {
		select {
		case s := <-c.free:
			held = append(held, s)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.Err()
}

// Err returns the fault that stopped the channel, if any.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fault
}

// Sent is the number of completed transmissions.
func (c *Channel) Sent() uint32 { return c.sent.Load() }

// SymbolCount is the number of symbols handed to the sink.
func (c *Channel) SymbolCount() uint64 { return c.symbols.Load() }

// Close stops the worker. Queued transmissions are abandoned.
func (c *Channel) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.stopped
}

func (c *Channel) run() {
	defer close(c.stopped)
	block := make([]Symbol, c.cfg.BlockSymbols)
	for {
		select {
		case <-c.stop:
			return
		case slot := <-c.queue:
			if c.Err() == nil {
				if err := c.transmit(slot, block); err != nil {
					c.log.Error("transmit failed", "channel", c.cfg.Name, "err", err)
					c.mu.Lock()
					c.fault = err
					c.mu.Unlock()
				}
			}
			c.free <- slot
		}
	}
}

func (c *Channel) transmit(data []byte, block []Symbol) error {
	enc := NewEncoder(data, c.cfg.Symbols)
	for {
		n, done := enc.Encode(block)
		if n == 0 && !done {
			return errcode.New(errcode.ChannelFault, c.cfg.Name, "encoder stalled")
		}
		if n > 0 {
			if err := c.sink.WriteSymbols(block[:n]); err != nil {
				return errcode.Wrap(errcode.ChannelFault, c.cfg.Name, err)
			}
			c.symbols.Add(uint64(n))
		}
		if done {
			c.sent.Add(1)
			return nil
		}
	}
}
