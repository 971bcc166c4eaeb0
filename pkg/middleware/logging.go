package middleware

import (
	"context"
	"time"

	"courtbook/pkg/logger"

	"github.com/google/uuid"
)

type contextKey string

const OperationIDKey contextKey = "operation_id"

// Action is one operator command, such as making a reservation.
type Action func(ctx context.Context) error

type Middleware func(name string, next Action) Action

// Chain wraps action so that the first middleware runs outermost.
func Chain(name string, action Action, mws ...Middleware) Action {
	for i := len(mws) - 1; i >= 0; i-- {
		action = mws[i](name, action)
	}
	return action
}

// OperationID returns the id assigned by ActionLogging, if any.
func OperationID(ctx context.Context) string {
	if id, ok := ctx.Value(OperationIDKey).(string); ok {
		return id
	}
	return ""
}

func ActionLogging(log *logger.Logger) Middleware {
	return func(name string, next Action) Action {
		return func(ctx context.Context) error {
			start := time.Now()
			operationID := uuid.NewString()
			ctx = context.WithValue(ctx, OperationIDKey, operationID)

			log.Debug("Operation started",
				"operation_id", operationID,
				"operation", name,
			)

			err := next(ctx)

			attrs := []any{
				"operation_id", operationID,
				"operation", name,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				log.Warn("Operation failed", append(attrs, "error", err)...)
				return err
			}
			log.Debug("Operation completed", attrs...)
			return nil
		}
	}
}
