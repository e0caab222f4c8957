package visibility

import (
	"context"
	"github.com/aurorasolar/go-oraclient/utils"
	"github.com/newrelic/newrelic-telemetry-sdk-go/telemetry"
	"net/http"
)

type MetricsSink interface {
	SubmitSegmentMetrics(met *MetricsContext)
}

type nullSink struct {
}

func (n *nullSink) SubmitSegmentMetrics(met *MetricsContext) {
}

var NullSink MetricsSink = &nullSink{}

// TelemetrySink ships metrics to New Relic through the telemetry SDK harvester.
type TelemetrySink struct {
	Harvester *telemetry.Harvester
}

func NewTelemetrySink(nrLicenseKey, appName string, suffix string,
	client *http.Client) *TelemetrySink {

	harv, err := telemetry.NewHarvester(
		telemetry.ConfigAPIKey(nrLicenseKey),
		func(c *telemetry.Config) {
			c.Client = client
		},
		telemetry.ConfigCommonAttributes(map[string]interface{}{
			"app.name": appName,
			"env":      suffix,
		}))
	utils.PanicIfF(err != nil, "Can't create the harvester: %v", err)

	return &TelemetrySink{Harvester: harv}
}

func (m *TelemetrySink) SubmitSegmentMetrics(met *MetricsContext) {
	met.CopyToHarvester(m.Harvester)
}

func (m *TelemetrySink) SendMetrics(ctx context.Context) {
	m.Harvester.HarvestNow(ctx)
}
