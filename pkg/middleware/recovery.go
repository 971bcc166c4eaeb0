package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
)

// Recovery turns a panic inside an action into an internal error so the
// menu loop keeps running.
func Recovery(log *logger.Logger) Middleware {
	return func(name string, next Action) Action {
		return func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("Panic recovered",
						"operation_id", OperationID(ctx),
						"operation", name,
						"error", r,
						"stack", string(debug.Stack()),
					)
					err = apperrors.Internal("Unexpected failure", fmt.Errorf("panic: %v", r))
				}
			}()

			return next(ctx)
		}
	}
}
