package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/garnizeh/offerdesk/internal/config"
	"golang.org/x/time/rate"
)

var ErrCircuitOpen = errors.New("notify: circuit open")

// HTTPNotifier posts messages to an email delivery API and adds retries,
// timeout, rate limiting and a circuit breaker.
type HTTPNotifier struct {
	cfg      config.NotifierConfig
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter

	// simple circuit breaker state
	failures  int32
	openUntil int64 // unix nano
	closed    int32 // atomic flag for Close()
}

type sendAttachment struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	ContentBase64 string `json:"content_base64"`
}

type sendRequest struct {
	From        string           `json:"from"`
	FromName    string           `json:"from_name,omitempty"`
	To          string           `json:"to"`
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Priority    Priority         `json:"priority"`
	Attachments []sendAttachment `json:"attachments,omitempty"`
}

// statusError is returned for non-2xx responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("notify: delivery api returned status %d: %s", e.code, e.body)
}

// retryable reports whether another attempt may succeed.
func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

func NewHTTPNotifier(cfg config.NotifierConfig, httpClient *http.Client) (*HTTPNotifier, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	base, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	path := cfg.SendPath
	if path == "" {
		path = "/v1/send"
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &HTTPNotifier{
		cfg:      cfg,
		client:   httpClient,
		endpoint: base.ResolveReference(&url.URL{Path: path}).String(),
		limiter:  rate.NewLimiter(limit, burst),
	}
	logger.Info("notify: http notifier created", slog.String("endpoint", c.endpoint), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

func NewDefaultHTTPNotifier(cfg config.NotifierConfig) (*HTTPNotifier, error) {
	defaultClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewHTTPNotifier(cfg, defaultClient)
}

func (c *HTTPNotifier) isCircuitOpen() bool {
	if c.cfg.CircuitFailureThreshold <= 0 {
		return false
	}
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// attempt half-open: reset failures and allow a request
	atomic.StoreInt32(&c.failures, 0)
	return false
}

func (c *HTTPNotifier) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if c.cfg.CircuitFailureThreshold > 0 && v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

// Close releases idle connections held by the underlying transport. Close is
// idempotent.
func (c *HTTPNotifier) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// Notify delivers msg, retrying transient failures up to cfg.Retries times.
func (c *HTTPNotifier) Notify(ctx context.Context, msg Message) error {
	if c.isCircuitOpen() {
		return ErrCircuitOpen
	}

	body, err := json.Marshal(c.payload(msg))
	if err != nil {
		return fmt.Errorf("notify: encode message: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("notify: rate limit wait: %w", err)
		}

		start := time.Now()
		err := c.post(ctx, body)
		if err == nil {
			atomic.StoreInt32(&c.failures, 0)
			logger.Info("notify: delivered",
				slog.String("to", msg.To),
				slog.String("kind", string(msg.Kind)),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			)
			return nil
		}

		lastErr = err
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
		c.recordFailure()

		if attempt == c.cfg.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.Backoff * time.Duration(attempt+1)):
		}
		if c.isCircuitOpen() {
			return ErrCircuitOpen
		}
	}

	return fmt.Errorf("notify: delivery failed after retries: %w", lastErr)
}

func (c *HTTPNotifier) payload(msg Message) sendRequest {
	req := sendRequest{
		From:     c.cfg.From,
		FromName: c.cfg.FromName,
		To:       msg.To,
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		Priority: msg.Priority,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, sendAttachment{
			Filename:      a.Filename,
			ContentType:   a.ContentType,
			ContentBase64: base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	return req
}

func (c *HTTPNotifier) post(ctx context.Context, body []byte) error {
	ctxReq := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctxReq, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctxReq, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: string(b)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
