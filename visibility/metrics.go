package visibility

import (
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/newrelic/newrelic-telemetry-sdk-go/telemetry"
	"sync"
	"time"
)

// MetricsContext accumulates the metrics of a single operation, such as one
// connection open attempt.
type MetricsContext struct {
	Lock    sync.Mutex
	OpName  string
	Metrics map[string]*MetricEntry

	clock func() time.Time
}

type MetricEntry struct {
	Val       float64
	Unit      cloudwatch.StandardUnit
	Timestamp time.Time
}

// Normalize unit to use the smallest possible time unit (microsecond). Other
// units are passed through.
func (e MetricEntry) Normalize() (float64, cloudwatch.StandardUnit) {
	switch e.Unit {
	case cloudwatch.StandardUnitSeconds:
		return e.Val * 1e6, cloudwatch.StandardUnitMicroseconds
	case cloudwatch.StandardUnitMilliseconds:
		return e.Val * 1e3, cloudwatch.StandardUnitMicroseconds
	case "":
		return e.Val, cloudwatch.StandardUnitNone
	}
	return e.Val, e.Unit
}

func NewMetricsContext(opName string) *MetricsContext {
	return NewMetricsContextWithClock(opName, time.Now)
}

func NewMetricsContextWithClock(opName string, clock func() time.Time) *MetricsContext {
	return &MetricsContext{
		OpName:  opName,
		Metrics: map[string]*MetricEntry{},
		clock:   clock,
	}
}

func (m *MetricsContext) GetMetric(name string) (val float64, unit cloudwatch.StandardUnit) {
	m.Lock.Lock()
	defer m.Lock.Unlock()

	curVal := m.Metrics[name]
	if curVal == nil {
		return 0, cloudwatch.StandardUnitNone
	}

	return curVal.Val, curVal.Unit
}

func (m *MetricsContext) GetMetricVal(name string) float64 {
	v, _ := m.GetMetric(name)
	return v
}

func (m *MetricsContext) AddMetric(name string, val float64, unit cloudwatch.StandardUnit) {
	m.Lock.Lock()
	defer m.Lock.Unlock()

	curVal := m.Metrics[name]
	if curVal == nil {
		m.Metrics[name] = &MetricEntry{
			Val:       val,
			Unit:      unit,
			Timestamp: m.clock(),
		}
		return
	}

	utils.PanicIfF(curVal.Unit != unit, "inconsistent unit assignment, was %s want %s",
		curVal.Unit, unit)
	curVal.Val += val
}

func (m *MetricsContext) AddCount(name string, val float64) {
	m.AddMetric(name, val, cloudwatch.StandardUnitCount)
}

func (m *MetricsContext) AddDuration(name string, duration time.Duration) {
	m.AddMetric(name, duration.Seconds(), cloudwatch.StandardUnitSeconds)
}

type TimeMeasurement struct {
	parent *MetricsContext
	name   string
	start  time.Time
}

func (m *MetricsContext) Benchmark(name string) *TimeMeasurement {
	return &TimeMeasurement{
		parent: m,
		name:   name,
		start:  m.clock(),
	}
}

func (t *TimeMeasurement) Done() {
	t.parent.AddDuration(t.name, t.parent.clock().Sub(t.start))
}

func (m *MetricsContext) CopyToHarvester(h *telemetry.Harvester) {
	m.Lock.Lock()
	defer m.Lock.Unlock()

	for name, val := range m.Metrics {
		normVal, normUnit := val.Normalize()
		attrs := map[string]interface{}{
			"Unit":     string(normUnit),
			"OrigUnit": string(val.Unit),
		}

		if val.Unit == cloudwatch.StandardUnitCount {
			h.RecordMetric(telemetry.Count{
				Name:       m.OpName + "_" + name,
				Attributes: attrs,
				Value:      normVal,
				Timestamp:  val.Timestamp,
			})
		} else {
			h.RecordMetric(telemetry.Gauge{
				Name:       m.OpName + "_" + name,
				Attributes: attrs,
				Value:      normVal,
				Timestamp:  val.Timestamp,
			})
		}
	}
}
