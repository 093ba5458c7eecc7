package bot

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lox/twweather/internal/forecast"
	"github.com/lox/twweather/internal/logging"
	"github.com/lox/twweather/internal/regions"
)

// Fetcher loads a raw forecast. *cwa.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, region string, h forecast.Horizon) (*forecast.Payload, error)
}

// Weather turns forecast lookups into reply text.
type Weather struct {
	fetcher Fetcher
	horizon forecast.Horizon
	now     func() time.Time
	log     logrus.FieldLogger
}

func NewWeather(f Fetcher, h forecast.Horizon, log logrus.FieldLogger) *Weather {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Weather{fetcher: f, horizon: h, now: time.Now, log: log}
}

// Forecast fetches and formats the forecast for region, or for
// regions.Default when region is blank. Failures are logged with their
// detail and answered with the matching user facing message.
func (w *Weather) Forecast(ctx context.Context, region string) string {
	if strings.TrimSpace(region) == "" {
		region = regions.Default
	}
	log := logging.FromContext(ctx, w.log).WithFields(logrus.Fields{
		"region":  region,
		"dataset": w.horizon.Dataset,
	})

	p, err := w.fetcher.Fetch(ctx, region, w.horizon)
	if err == nil {
		var text string
		text, err = forecast.Format(p, region, w.horizon, w.now())
		if err == nil {
			log.Info("forecast formatted")
			return text
		}
	}

	kind := forecast.KindOf(err)
	entry := log.WithError(err).WithField("kind", kind.String())
	if kind == forecast.KindStructure {
		entry.Error("forecast payload unusable")
	} else {
		entry.Warn("forecast unavailable")
	}
	return forecast.Message(err)
}
