// Package shmring is a single-producer, single-consumer byte ring with
// coalesced notifications. It backs the host serial reader and the in-memory
// loopback link.
package shmring

import (
	"context"
	"sync/atomic"
)

// Ring indices grow monotonically and wrap with uint32 arithmetic.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index
	wr   atomic.Uint32 // producer index

	// One token each, posted after every transfer. A waiter that saw the
	// ring empty (full) always finds a token from any later write (read).
	readable chan struct{}
	writable chan struct{}
}

// New allocates a ring of size bytes. size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Space() int {
	return int(r.size() - (r.wr.Load() - r.rd.Load()))
}

func (r *Ring) Available() int {
	return int(r.wr.Load() - r.rd.Load())
}

// Producer side

// TryWriteFrom copies as much of src as fits and returns the count.
func (r *Ring) TryWriteFrom(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	n := min(int(r.size()-(wr-rd)), len(src))
	if n <= 0 {
		return 0
	}

	idx := wr & r.mask
	first := min(int(r.size()-idx), n)
	copy(r.buf[idx:], src[:first])
	copy(r.buf, src[first:n])
	r.wr.Store(wr + uint32(n))
	notify(r.readable)
	return n
}

// WriteContext writes all of src, waiting for space as needed.
func (r *Ring) WriteContext(ctx context.Context, src []byte) (int, error) {
	total := 0
	for total < len(src) {
		n := r.TryWriteFrom(src[total:])
		total += n
		if n > 0 {
			continue
		}
		select {
		case <-r.writable:
		case <-ctx.Done():
			return total, ctx.Err()
		}
	}
	return total, nil
}

// Consumer side

// TryReadInto copies up to len(dst) buffered bytes and returns the count.
func (r *Ring) TryReadInto(dst []byte) int {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load()
	avail := int(wr - rd)
	n := min(avail, len(dst))
	if n <= 0 {
		return 0
	}

	idx := rd & r.mask
	first := min(int(r.size()-idx), n)
	copy(dst[:first], r.buf[idx:])
	copy(dst[first:n], r.buf)
	r.rd.Store(rd + uint32(n))
	notify(r.writable)
	return n
}

// RecvSomeContext blocks until at least one byte is available or ctx is done.
func (r *Ring) RecvSomeContext(ctx context.Context, dst []byte) (int, error) {
	for {
		if n := r.TryReadInto(dst); n > 0 || len(dst) == 0 {
			return n, nil
		}
		select {
		case <-r.readable:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
