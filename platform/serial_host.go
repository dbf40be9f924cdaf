//go:build !(rp2040 || rp2350)

package platform

import (
	"context"
	"sync"
	"time"

	"go.bug.st/serial"

	"arcade-go/errcode"
	"arcade-go/x/logx"
	"arcade-go/x/shmring"
)

const (
	serialPoll = 50 * time.Millisecond
	serialRing = 4096
)

// SerialPort adapts a host serial device to the UART contract used by the
// parser. A reader goroutine moves bytes into a ring so RecvSomeContext can
// honour its context.
type SerialPort struct {
	name string
	port serial.Port
	ring *shmring.Ring
	log  *logx.Logger

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// OpenSerial opens name at baud, 8N1, no flow control.
func OpenSerial(name string, baud int) (*SerialPort, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "serial.open", Msg: name, Err: err}
	}
	if err := p.SetReadTimeout(serialPoll); err != nil {
		_ = p.Close()
		return nil, &errcode.E{C: errcode.Error, Op: "serial.open", Msg: name + ": read timeout", Err: err}
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &SerialPort{
		name:   name,
		port:   p,
		ring:   shmring.New(serialRing),
		log:    logx.New("serial"),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.pump(ctx)
	return s, nil
}

// ListPorts returns the serial devices visible to the host.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}

func (s *SerialPort) pump(ctx context.Context) {
	defer close(s.done)
	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			if _, werr := s.ring.WriteContext(ctx, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warn("read failed", "port", s.name, "err", err.Error())
				s.setErr(err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *SerialPort) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Err reports the failure that stopped the reader, if any.
func (s *SerialPort) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// RecvSomeContext drains buffered bytes first. Once the reader has stopped
// the port cannot recover, so an empty ring then yields errcode.ChannelFault.
func (s *SerialPort) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		if n := s.ring.TryReadInto(p); n > 0 {
			return n, nil
		}
		select {
		case <-s.done:
			if n := s.ring.TryReadInto(p); n > 0 {
				return n, nil
			}
			return 0, &errcode.E{C: errcode.ChannelFault, Op: "serial.recv", Msg: s.name + ": closed", Err: s.Err()}
		default:
		}
		select {
		case <-s.ring.Readable():
		case <-s.done:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func (s *SerialPort) Write(p []byte) (int, error) { return s.port.Write(p) }

func (s *SerialPort) Close() error {
	s.cancel()
	err := s.port.Close()
	<-s.done
	return err
}
