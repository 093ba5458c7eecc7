// Package config holds the startup configuration of the bot. Values come
// from flags, the environment and an optional .env file; missing required
// values stop the process before anything is served.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"

	"github.com/lox/twweather/internal/cwa"
	"github.com/lox/twweather/internal/forecast"
	"github.com/lox/twweather/internal/logging"
)

type Config struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name='env-file',default='.env',help='Path to .env file.'"`

	ChannelAccessToken string `name:"line-channel-access-token" env:"LINE_CHANNEL_ACCESS_TOKEN" required:"" help:"LINE messaging API channel access token."`
	ChannelSecret      string `name:"line-channel-secret" env:"LINE_CHANNEL_SECRET" required:"" help:"LINE channel secret used to verify webhook signatures."`
	CWAAPIKey          string `name:"cwa-api-key" env:"CWA_API_KEY" required:"" help:"CWA open data authorization key."`

	Port        string        `env:"PORT" default:"10000" help:"HTTP server port."`
	CWABaseURL  string        `name:"cwa-base-url" env:"CWA_BASE_URL" default:"${cwa_base_url}" help:"CWA datastore base URL."`
	CWATimeout  time.Duration `name:"cwa-timeout" env:"CWA_TIMEOUT" default:"10s" help:"Deadline for one forecast lookup, retries included."`
	CWARetries  uint64        `name:"cwa-retries" env:"CWA_RETRIES" default:"2" help:"Extra attempts after a 429 or 5xx from CWA."`
	Horizon     string        `env:"FORECAST_HORIZON" enum:"week,short" default:"week" help:"Forecast horizon: week (7 days) or short (next slot of the 36h forecast)."`
	OpenRegions bool          `name:"open-regions" env:"OPEN_REGIONS" help:"Send any text to CWA instead of only known county and city names."`

	LogLevel  string `name:"log-level" env:"LOG_LEVEL" enum:"debug,info,warn,error" default:"info" help:"Log level."`
	LogFormat string `name:"log-format" env:"LOG_FORMAT" enum:"json,text" default:"json" help:"Log output format."`
}

// Vars are the kong interpolation variables used by Config defaults.
func Vars() kong.Vars {
	return kong.Vars{"cwa_base_url": cwa.DefaultBaseURL}
}

// Parse parses args into a Config. exit is called by kong for --help and
// usage errors.
func Parse(args []string, stdout io.Writer, exit func(int)) (*Config, error) {
	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("twweather"),
		kong.Description("LINE bot answering Taiwan county weather forecasts from CWA open data."),
		kong.Writers(stdout, stdout),
		kong.Exit(exit),
		Vars(),
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate is called by kong after parsing.
func (c *Config) Validate() error {
	var errs []error
	for name, v := range map[string]string{
		"line-channel-access-token": c.ChannelAccessToken,
		"line-channel-secret":       c.ChannelSecret,
		"cwa-api-key":               c.CWAAPIKey,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	if c.CWATimeout <= 0 {
		errs = append(errs, fmt.Errorf("cwa-timeout must be positive, got %s", c.CWATimeout))
	}
	if u, err := url.Parse(c.CWABaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("cwa-base-url %q is not an absolute URL", c.CWABaseURL))
	}
	if _, err := forecast.HorizonByName(c.Horizon); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ForecastHorizon returns the configured horizon.
func (c *Config) ForecastHorizon() forecast.Horizon {
	h, err := forecast.HorizonByName(c.Horizon)
	if err != nil {
		return forecast.Week
	}
	return h
}

// Logger builds the process logger.
func (c *Config) Logger(out io.Writer) (*logrus.Logger, error) {
	return logging.New(c.LogLevel, c.LogFormat, out)
}

// CWAOptions returns the CWA client options for this configuration.
func (c *Config) CWAOptions(log logrus.FieldLogger) cwa.Options {
	return cwa.Options{
		BaseURL: c.CWABaseURL,
		APIKey:  c.CWAAPIKey,
		Timeout: c.CWATimeout,
		Retries: c.CWARetries,
		Logger:  log,
	}
}
