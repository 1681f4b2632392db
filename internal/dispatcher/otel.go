// internal/dispatcher/otel.go

package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/reelmark/reelmark/internal/dispatcher"

func meter() metric.Meter {
	return otel.GetMeterProvider().Meter(instrumentationName)
}
