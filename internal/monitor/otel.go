// internal/monitor/otel.go

package monitor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/reelmark/reelmark/internal/monitor"

func meter() metric.Meter {
	return otel.GetMeterProvider().Meter(instrumentationName)
}
