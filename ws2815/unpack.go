package ws2815

import "arcade-go/errcode"

// Unpacker reassembles bytes from symbols delivered in arbitrary batches.
// Sinks that drive byte-oriented hardware use it to undo the encoding.
type Unpacker struct {
	cur  byte
	bits int
}

// Feed calls onByte for every completed byte and onReset for every reset
// symbol. A reset in the middle of a byte discards the partial bits and is
// reported as errcode.ChannelFault after onReset runs.
func (u *Unpacker) Feed(syms []Symbol, onByte func(byte) error, onReset func(Symbol) error) error {
	for _, s := range syms {
		if s.IsReset() {
			partial := u.bits != 0
			u.cur, u.bits = 0, 0
			if err := onReset(s); err != nil {
				return err
			}
			if partial {
				return errcode.New(errcode.ChannelFault, "unpack", "reset inside a byte")
			}
			continue
		}
		bit, ok := s.Bit()
		if !ok {
			return errcode.New(errcode.ChannelFault, "unpack", "malformed symbol")
		}
		u.cur <<= 1
		if bit {
			u.cur |= 1
		}
		if u.bits++; u.bits == 8 {
			b := u.cur
			u.cur, u.bits = 0, 0
			if err := onByte(b); err != nil {
				return err
			}
		}
	}
	return nil
}
