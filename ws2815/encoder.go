package ws2815

// SymbolsPerByte is the width of one encoded byte. No unit is started unless
// this many slots are free.
const SymbolsPerByte = 8

// SymbolSource yields symbols in caller-sized batches until done.
type SymbolSource interface {
	Encode(dst []Symbol) (n int, done bool)
}

// Encoder produces the symbols for one transmission of data. It is finite
// and cannot be restarted; make a new one per transmission.
type Encoder struct {
	data    []byte
	set     SymbolSet
	emitted int
	done    bool
}

func NewEncoder(data []byte, set SymbolSet) *Encoder {
	return &Encoder{data: data, set: set}
}

// Encode fills dst with whole bytes (8 symbols each, MSB first) and, after
// the last byte, the single reset symbol. It returns 0 without progress when
// dst has fewer than 8 free slots. Once the reset is out, done is true and
// every later call returns (0, true).
func (e *Encoder) Encode(dst []Symbol) (n int, done bool) {
	for !e.done && len(dst)-n >= SymbolsPerByte {
		pos := e.emitted / SymbolsPerByte
		if pos < len(e.data) {
			b := e.data[pos]
			for mask := byte(0x80); mask != 0; mask >>= 1 {
				if b&mask != 0 {
					dst[n] = e.set.One
				} else {
					dst[n] = e.set.Zero
				}
				n++
			}
			e.emitted += SymbolsPerByte
			continue
		}
		dst[n] = e.set.Reset
		n++
		e.emitted++
		e.done = true
	}
	return n, e.done
}

// Emitted is the number of symbols produced so far.
func (e *Encoder) Emitted() int { return e.emitted }

func (e *Encoder) Done() bool { return e.done }

// Total is the number of symbols a full transmission of n bytes takes.
func Total(n int) int { return n*SymbolsPerByte + 1 }

// Decode recovers the data bytes from a symbol stream, stopping at the
// first reset. It is the inverse of Encoder for well-formed input.
func Decode(syms []Symbol) (data []byte, complete bool) {
	var cur byte
	bits := 0
	for _, s := range syms {
		if s.IsReset() {
			return data, bits == 0
		}
		bit, ok := s.Bit()
		if !ok {
			return data, false
		}
		cur <<= 1
		if bit {
			cur |= 1
		}
		bits++
		if bits == 8 {
			data = append(data, cur)
			cur, bits = 0, 0
		}
	}
	return data, false
}
