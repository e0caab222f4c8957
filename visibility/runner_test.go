package visibility

import (
	"context"
	"errors"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"testing"
)

type fakeSink struct {
	data map[string]MetricEntry
}

func (f *fakeSink) SubmitSegmentMetrics(seg *MetricsContext) {
	if f.data == nil {
		f.data = make(map[string]MetricEntry)
	}
	for n, v := range seg.Metrics {
		f.data[n] = *v
	}
}

func TestRunInstrumented(t *testing.T) {
	sink := &fakeSink{}
	mem, logger := utils.NewMemorySinkLogger()

	err := RunInstrumented(context.Background(), "Ping", sink, logger,
		func(ctx context.Context) error {
			CL(ctx).Info("Pinging")
			met := MetricsFromContext(ctx)
			require.NotNil(t, met)
			met.AddCount("Rows", 3)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, 3.0, sink.data["Rows"].Val)
	assert.Equal(t, 1.0, sink.data["Success"].Val)
	assert.Contains(t, sink.data, "Duration")
	assert.NotContains(t, sink.data, "Errors")
	assert.Contains(t, mem.String(), `"logger":"Ping"`)
	assert.Nil(t, MetricsFromContext(context.Background()))
}

func TestRunInstrumentedError(t *testing.T) {
	sink := &fakeSink{}
	boom := errors.New("boom")

	err := RunInstrumented(context.Background(), "Ping", sink, zap.NewNop(),
		func(ctx context.Context) error {
			return boom
		})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1.0, sink.data["Errors"].Val)
	assert.NotContains(t, sink.data, "Success")
}

func TestRunInstrumentedPanic(t *testing.T) {
	sink := &fakeSink{}
	mem, logger := utils.NewMemorySinkLogger()

	assert.PanicsWithValue(t, "bad", func() {
		_ = RunInstrumented(context.Background(), "Ping", sink, logger,
			func(ctx context.Context) error {
				panic("bad")
			})
	})
	assert.Equal(t, 1.0, sink.data["Panics"].Val)
	assert.Contains(t, mem.String(), "Operation panicked")
}
