package platform

import (
	"context"

	"arcade-go/x/shmring"
)

// Loopback is an in-memory serial link: bytes written by the host side are
// read back by the firmware side.
type Loopback struct {
	ring *shmring.Ring
}

func NewLoopback(size int) *Loopback {
	return &Loopback{ring: shmring.New(size)}
}

// Write blocks until all of p fits.
func (l *Loopback) Write(p []byte) (int, error) {
	return l.ring.WriteContext(context.Background(), p)
}

func (l *Loopback) WriteContext(ctx context.Context, p []byte) (int, error) {
	return l.ring.WriteContext(ctx, p)
}

func (l *Loopback) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	return l.ring.RecvSomeContext(ctx, p)
}

func (l *Loopback) Buffered() int { return l.ring.Available() }
