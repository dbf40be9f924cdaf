// Package protocol synchronises on the host's serial frame stream.
//
// Wire format, no checksum:
//
//	'A' 'R' 'C' 'A' 'D' 'E' | trigger | count | count × (r, g, b)
package protocol

import (
	"arcade-go/errcode"
	"arcade-go/led"
)

// Marker opens every frame.
const Marker = "ARCADE"

const (
	markerLen = len(Marker)
	headerLen = markerLen + 2

	// MaxFrameLen is the longest encoded frame.
	MaxFrameLen = headerLen + led.MaxLen*3
)

// Frame is one decoded command. Pixels returned by Parser.Poll alias the
// parser's payload storage and are valid until the next Poll.
type Frame struct {
	Trigger bool
	Pixels  []led.Pixel
}

// AppendFrame appends the wire encoding of f to dst.
func AppendFrame(dst []byte, f Frame) ([]byte, error) {
	if len(f.Pixels) > led.MaxLen {
		return dst, errcode.New(errcode.InvalidParams, "protocol.append", "too many pixels")
	}
	var trig byte
	if f.Trigger {
		trig = 1
	}
	dst = append(dst, Marker...)
	dst = append(dst, trig, byte(len(f.Pixels)))
	for _, p := range f.Pixels {
		dst = append(dst, p.R, p.G, p.B)
	}
	return dst, nil
}
