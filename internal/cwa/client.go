// Package cwa fetches county forecasts from the Central Weather
// Administration open data platform.
package cwa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/lox/twweather/internal/forecast"
	"github.com/lox/twweather/internal/htmlutil"
	"github.com/lox/twweather/internal/httputil"
	"github.com/lox/twweather/internal/metrics"
)

const (
	DefaultBaseURL       = "https://opendata.cwa.gov.tw/api/v1/rest/datastore"
	DefaultTimeout       = 10 * time.Second
	DefaultRetryInterval = 250 * time.Millisecond

	maxBodyBytes = 4 << 20
)

type Options struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration // whole lookup, retries included
	Retries       uint64        // extra attempts after a 429 or 5xx
	RetryInterval time.Duration
	HTTPClient    *http.Client
	Logger        logrus.FieldLogger
}

// Client queries CWA datastore datasets.
type Client struct {
	baseURL       string
	apiKey        string
	timeout       time.Duration
	retries       uint64
	retryInterval time.Duration
	httpClient    *http.Client
	log           logrus.FieldLogger
}

// NewClient creates a CWA client, filling in defaults for zero options.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		timeout:       opts.Timeout,
		retries:       opts.Retries,
		retryInterval: opts.RetryInterval,
		httpClient:    opts.HTTPClient,
		log:           opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retryInterval <= 0 {
		c.retryInterval = DefaultRetryInterval
	}
	if c.httpClient == nil {
		c.httpClient = httputil.NewClient()
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

func (c *Client) requestURL(region string, h forecast.Horizon) string {
	q := url.Values{}
	q.Set("Authorization", c.apiKey)
	q.Set("locationName", region)
	q.Set("elementName", h.ElementQuery())
	q.Set("sort", "time")
	return c.baseURL + "/" + h.Dataset + "?" + q.Encode()
}

// Fetch retrieves the forecast payload for a region. Failures are returned
// as *forecast.Error so callers can pick the reply text by kind.
func (c *Client) Fetch(ctx context.Context, region string, h forecast.Horizon) (*forecast.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	log := c.log.WithFields(logrus.Fields{"dataset": h.Dataset, "region": region})
	reqURL := c.requestURL(region, h)

	var (
		body   []byte
		status int
	)
	operation := func() error {
		body, status = nil, 0

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch forecast: %w", err))
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		body, status = b, resp.StatusCode

		if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
			return fmt.Errorf("retryable status %d", status)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = c.timeout
	retry := backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx)

	start := time.Now()
	err := backoff.RetryNotify(operation, retry, func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait).Warn("cwa request failed, retrying")
	})
	metrics.CWAAPILatency.WithLabelValues(h.Dataset).Observe(time.Since(start).Seconds())

	if err != nil && (body == nil || ctx.Err() != nil) {
		kind := forecast.KindTransport
		if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = forecast.KindTimeout
		}
		metrics.CWAAPICallsTotal.WithLabelValues(h.Dataset, kind.String()).Inc()
		return nil, &forecast.Error{Kind: kind, Region: region, Err: err}
	}

	metrics.CWAAPICallsTotal.WithLabelValues(h.Dataset, strconv.Itoa(status)).Inc()

	if status != http.StatusOK {
		return nil, upstreamError(region, status, body)
	}

	p, err := forecast.Decode(body)
	if err != nil {
		var fe *forecast.Error
		if errors.As(err, &fe) {
			fe.Region = region
		}
		return nil, err
	}
	return p, nil
}

// upstreamError reports a non-200 response, preferring the message of a
// JSON error document over the raw body.
func upstreamError(region string, status int, body []byte) error {
	msg := fmt.Sprintf("HTTP %d", status)
	if p, err := forecast.Decode(body); err == nil && p.Message != "" {
		msg = p.Message
	}
	return &forecast.Error{
		Kind:    forecast.KindUpstream,
		Region:  region,
		Message: msg,
		Err:     fmt.Errorf("status %d: %s", status, htmlutil.Snippet(string(body), 200)),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
