package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Expected failures (bad input, state conflicts) log at WARN, everything else at ERROR.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := GetUserID(ctx) // empty if pre-auth

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				logger.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				logger.Error("RPC error",
					"procedure", procedure,
					"error", err,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, err
			}

			attrs := []any{
				"procedure", procedure,
				"code", connectErr.Code(),
				"error", connectErr.Message(),
				"user_id", userID,
				"duration_ms", duration,
			}
			if detail, ok := apiconnect.ErrorInfo(err); ok {
				attrs = append(attrs, "error_code", detail.Code)
			}
			if connectErr.Code() == connect.CodeInternal || connectErr.Code() == connect.CodeUnknown {
				logger.Error("RPC error", attrs...)
			} else {
				logger.Warn("RPC error", attrs...)
			}
			return resp, err
		}
	}
}
