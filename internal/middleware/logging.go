package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, duration and error code. Client errors log at
// WARN and server errors at ERROR. Install it after RequireAuth so the
// user ID is in the context.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := GetUserID(ctx)

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				slog.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			code := connect.CodeOf(err)
			msg := err.Error()
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				msg = connectErr.Message()
			}

			level := slog.LevelWarn
			if code == connect.CodeInternal || code == connect.CodeUnknown {
				level = slog.LevelError
			}
			slog.Log(ctx, level, "RPC error",
				"procedure", procedure,
				"code", code,
				"error", msg,
				"user_id", userID,
				"duration_ms", duration,
			)
			return resp, err
		}
	}
}
