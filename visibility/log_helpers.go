package visibility

import (
	"context"
	"go.uber.org/zap"
)

type loggerKey struct {
}

var loggerKeyVal = &loggerKey{}

// CL returns the logger carried by the context. Connection hooks always run
// with an imbued context.
func CL(ctx context.Context) *zap.Logger {
	value := ctx.Value(loggerKeyVal)
	if value == nil {
		panic("Trying to log from an unimbued context")
	}
	return value.(*zap.Logger)
}

func CLS(ctx context.Context) *zap.SugaredLogger {
	return CL(ctx).Sugar()
}

// HasLogger reports whether the context carries a logger.
func HasLogger(ctx context.Context) bool {
	return ctx.Value(loggerKeyVal) != nil
}

func ImbueContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKeyVal, logger)
}
