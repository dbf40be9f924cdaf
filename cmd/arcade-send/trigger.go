package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"

	"arcade-go/host/volume"
)

// triggerSource decides the trigger byte for each frame.
type triggerSource interface {
	next() bool
}

type constTrigger bool

func (c constTrigger) next() bool { return bool(c) }

func newTrigger() (triggerSource, error) {
	if audioPath == "" {
		return constTrigger(trigger), nil
	}
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	return &audioTrigger{
		r:   bufio.NewReader(f),
		c:   f,
		mon: volume.NewMonitor(volume.DefaultConfig()),
		buf: make([]float32, max(sampleRate/fps, 1)),
	}, nil
}

// audioTrigger reads one frame's worth of samples per call. At end of input
// the trigger stays off.
type audioTrigger struct {
	r   io.Reader
	c   io.Closer
	mon *volume.Monitor
	buf []float32
	eof bool
}

func (a *audioTrigger) next() bool {
	if a.eof {
		return false
	}
	err := binary.Read(a.r, binary.LittleEndian, a.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			slog.Warn("audio read failed", "err", err)
		}
		a.eof = true
		_ = a.c.Close()
		return false
	}
	r := a.mon.Process(a.buf)
	slog.Debug("volume", "rms", r.RMS, "peak", r.Peak, "avg", r.Average, "trigger", r.Trigger)
	return r.Trigger
}
