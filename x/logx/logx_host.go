//go:build !(rp2040 || rp2350)

package logx

import (
	"context"
	"log/slog"
)

func emit(tag string, lv Level, msg string, kv []any) {
	args := make([]any, 0, len(kv)+2)
	args = append(args, "tag", tag)
	args = append(args, kv...)
	slog.Default().Log(context.Background(), slog.Level(lv), msg, args...)
}
