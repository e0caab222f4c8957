package visibility

import (
	"context"
	"go.uber.org/zap"
)

type metricsKey struct {
}

var metricsKeyVal = &metricsKey{}

// MetricsFromContext returns the metrics of the instrumented operation the
// context belongs to, or nil outside of RunInstrumented.
func MetricsFromContext(ctx context.Context) *MetricsContext {
	value := ctx.Value(metricsKeyVal)
	if value == nil {
		return nil
	}
	return value.(*MetricsContext)
}

// RunInstrumented runs fn with a named logger and a fresh MetricsContext in
// its context. Duration and outcome counts are submitted to the sink when fn
// returns or panics; panics are logged and propagated.
func RunInstrumented(ctx context.Context, name string, sink MetricsSink,
	logger *zap.Logger, fn func(context.Context) error) (err error) {

	met := NewMetricsContext(name)
	defer sink.SubmitSegmentMetrics(met)

	defer func() {
		if p := recover(); p != nil {
			met.AddCount("Panics", 1)
			logger.Error("Operation panicked", zap.String("op", name),
				zap.Any("panic", p), zap.Stack("stack"))
			panic(p)
		}
	}()

	bench := met.Benchmark("Duration")
	defer bench.Done()

	logger = logger.Named(name)
	c := ImbueContext(ctx, logger)
	c = context.WithValue(c, metricsKeyVal, met)

	err = fn(c)
	if err != nil {
		met.AddCount("Errors", 1)
		logger.Debug("Operation failed", zap.Error(err))
	} else {
		met.AddCount("Success", 1)
	}
	return err
}
