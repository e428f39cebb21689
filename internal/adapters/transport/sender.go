// Package transport delivers ping messages to the collector over HTTP.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/mo"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"

	"github.com/okian/playpulse/internal/domain/model"
	"github.com/okian/playpulse/pkg/logger"
	"github.com/okian/playpulse/pkg/metrics"
)

const (
	defaultTimeout         = 5 * time.Second
	defaultBreakerCooldown = 30 * time.Second
	maxResponseBytes       = 1 << 20
)

// Sender sends a ping and returns the session id found in the response, if any.
type Sender interface {
	Send(ctx context.Context, pingURL string, msg model.PlaybackPingMessage) (mo.Option[string], error)
}

// HTTPSender posts JSON pings. It is safe for concurrent use and does not
// limit the number of requests in flight.
type HTTPSender struct {
	client           *http.Client
	timeout          time.Duration
	breakerThreshold uint32
	breakerCooldown  time.Duration
	breaker          *gobreaker.CircuitBreaker[[]byte]
	logger           logger.Logger
}

// NewHTTPSender creates a sender backed by a pooled transport.
func NewHTTPSender(opts ...Option) *HTTPSender {
	s := &HTTPSender{
		timeout:         defaultTimeout,
		breakerCooldown: defaultBreakerCooldown,
		logger:          logger.GetOrDiscard().Named("transport"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   s.timeout,
		}
	}

	if s.breakerThreshold > 0 {
		threshold := s.breakerThreshold
		s.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "collector",
			MaxRequests: 1,
			Timeout:     s.breakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				s.logger.Warn(context.Background(), "circuit breaker state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			},
		})
	}

	return s
}

// Send encodes msg, posts it to pingURL and extracts the "session" field of
// the response. A response without that field yields None and no error.
func (s *HTTPSender) Send(ctx context.Context, pingURL string, msg model.PlaybackPingMessage) (mo.Option[string], error) {
	videoType := "vod"
	if msg.Session.LiveStreamID != "" {
		videoType = "live"
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.RecordPingResult(videoType, "serialization_error")
		return mo.None[string](), fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	metrics.IncPingsInFlight()
	start := time.Now()
	body, err := s.execute(ctx, pingURL, payload)
	metrics.DecPingsInFlight()
	metrics.RecordPingLatency(videoType, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordPingResult(videoType, "transport_error")
		return mo.None[string](), err
	}

	if !gjson.ValidBytes(body) {
		metrics.RecordPingResult(videoType, "invalid_response")
		return mo.None[string](), fmt.Errorf("%w: body is not json", ErrInvalidResponse)
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		metrics.RecordPingResult(videoType, "invalid_response")
		return mo.None[string](), fmt.Errorf("%w: body is not a json object", ErrInvalidResponse)
	}

	metrics.RecordPingResult(videoType, "ok")

	session := parsed.Get("session")
	if session.Type != gjson.String || session.Str == "" {
		return mo.None[string](), nil
	}
	return mo.Some(session.Str), nil
}

func (s *HTTPSender) execute(ctx context.Context, pingURL string, payload []byte) ([]byte, error) {
	if s.breaker == nil {
		return s.post(ctx, pingURL, payload)
	}
	body, err := s.breaker.Execute(func() ([]byte, error) {
		return s.post(ctx, pingURL, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return body, err
}

func (s *HTTPSender) post(ctx context.Context, pingURL string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pingURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrTransport, strconv.Itoa(resp.StatusCode))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrTransport)
	}
	return body, nil
}
