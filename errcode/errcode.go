package errcode

import "errors"

// Code is a stable error identifier shared by the firmware packages.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Timeout       Code = "timeout"
	InvalidParams Code = "invalid_params"
	InvalidConfig Code = "invalid_config"
	Unsupported   Code = "unsupported"

	// Serial protocol
	ProtocolDrop    Code = "protocol_drop"
	PayloadTooLarge Code = "payload_too_large"

	// Pixel storage
	IndexOutOfRange Code = "index_out_of_range"

	// LED transmit path
	QueueFull    Code = "queue_full"
	ChannelFault Code = "channel_fault"

	Error Code = "error" // generic fallback
)

// E keeps an operation name, context and a cause alongside a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// New returns an *E for op with code c and message msg.
func New(c Code, op, msg string) *E { return &E{C: c, Op: op, Msg: msg} }

// Wrap attaches code c and op to err. A nil err yields nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// IsFatal reports whether err must stop the render loop. These are
// configuration faults or hardware rejections; no retry policy applies.
func IsFatal(err error) bool {
	switch Of(err) {
	case IndexOutOfRange, PayloadTooLarge, QueueFull, ChannelFault, InvalidConfig:
		return true
	}
	return false
}
