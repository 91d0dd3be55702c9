package controller

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/vidroom/server/pkg/ctxlogger"
	"github.com/vidroom/server/pkg/wsrouter"
)

func (c controller) requestIdWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn wsrouter.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", c.generateTimeBasedId()))
			return next(ctx, conn, payload)
		}
	}
}

func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn wsrouter.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx,
				slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)),
				slog.String("room_id", c.getRoomIdFromCtx(ctx)),
				slog.String("member_id", c.getMemberIdFromCtx(ctx)),
			)
			c.logger.InfoContext(ctx, "websocket message received")

			start := time.Now()
			err := next(ctx, conn, payload)

			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)
			c.logger.InfoContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
				"goroutines", runtime.NumGoroutine(),
				"alloc_kb", memStats.Alloc/1024,
			)

			return err
		}
	}
}

// roomLockWSMw serializes every handler of a room, so a state mutation and its
// broadcast are never interleaved with another member's.
func (c controller) roomLockWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn wsrouter.Conn, payload any) error {
			roomId := c.getRoomIdFromCtx(ctx)
			c.roomLocks.Lock(roomId)
			defer c.roomLocks.Unlock(roomId)

			return next(ctx, conn, payload)
		}
	}
}
