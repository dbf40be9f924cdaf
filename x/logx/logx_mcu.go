//go:build rp2040 || rp2350

package logx

import (
	"time"

	"arcade-go/x/conv"
)

func emit(tag string, lv Level, msg string, kv []any) {
	var line []byte
	line = append(line, '[')
	line = append(line, tag...)
	line = append(line, "] "...)
	line = append(line, lv.String()...)
	line = append(line, ' ')
	line = append(line, msg...)
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		line = append(line, ' ')
		line = append(line, k...)
		line = append(line, '=')
		line = appendValue(line, kv[i+1])
	}
	println(string(line))
}

func appendValue(dst []byte, v any) []byte {
	switch x := v.(type) {
	case string:
		return append(dst, x...)
	case bool:
		if x {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case int:
		return conv.AppendInt(dst, int64(x))
	case int32:
		return conv.AppendInt(dst, int64(x))
	case int64:
		return conv.AppendInt(dst, x)
	case uint8:
		return conv.AppendUint(dst, uint64(x))
	case uint16:
		return conv.AppendUint(dst, uint64(x))
	case uint32:
		return conv.AppendUint(dst, uint64(x))
	case uint64:
		return conv.AppendUint(dst, x)
	case time.Duration:
		return append(conv.AppendInt(dst, x.Milliseconds()), "ms"...)
	case error:
		return append(dst, x.Error()...)
	case interface{ String() string }:
		return append(dst, x.String()...)
	default:
		return append(dst, '?')
	}
}
