package soap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rws/go-ishremote/transport"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the web services root, e.g. https://ish.example.com/ISHWS/.
	BaseURL string

	Logger *slog.Logger

	// Retry is applied to transient transport failures. Nil disables retries.
	Retry *RetryPolicy

	// CircuitBreaker guards the server. Nil disables it.
	CircuitBreaker *CircuitBreakerPolicy

	// MaxConcurrentCalls bounds the calls in flight (default 8).
	MaxConcurrentCalls int

	// MaxQueueSize bounds the calls waiting for a slot. Zero leaves the
	// queue unbounded, a negative value disables queueing.
	MaxQueueSize int

	// AcquireTimeout bounds the wait for a slot (default 60s).
	AcquireTimeout time.Duration
}

// Client calls the API25 services.
type Client struct {
	baseURL   string
	transport *transport.HTTPTransport
	logger    *slog.Logger
	retry     *RetryPolicy
	breaker   *CircuitBreaker
	sem       *callSemaphore
	sessionID string
}

// NewClient creates a new SOAP client over tr.
func NewClient(cfg Config, tr *transport.HTTPTransport) (*Client, error) {
	base, err := NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxCalls := cfg.MaxConcurrentCalls
	if maxCalls <= 0 {
		maxCalls = 8
	}

	maxQueue := cfg.MaxQueueSize
	switch {
	case maxQueue == 0:
		maxQueue = -1
	case maxQueue < 0:
		maxQueue = 0
	}

	var policy *CircuitBreakerPolicy
	if cfg.CircuitBreaker != nil {
		p := *cfg.CircuitBreaker
		if p.IsFailure == nil {
			p.IsFailure = isBreakerFailure
		}
		policy = &p
	}

	return &Client{
		baseURL:   base,
		transport: tr,
		logger:    logger,
		retry:     cfg.Retry,
		breaker:   NewCircuitBreaker(policy),
		sem:       newCallSemaphore(maxCalls, maxQueue, cfg.AcquireTimeout),
		sessionID: uuid.NewString(),
	}, nil
}

// NormalizeBaseURL validates an ISHWS url and returns it with a trailing slash.
func NormalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("soap: invalid base url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("soap: invalid base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("soap: invalid base url %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

// isBreakerFailure counts only failures of the server to answer.
func isBreakerFailure(err error) bool {
	return !IsFault(err) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, transport.ErrUnauthorized) &&
		!errors.Is(err, transport.ErrForbidden)
}

// BaseURL returns the normalized web services root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionID identifies this client in logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Endpoint returns the url of service.
func (c *Client) Endpoint(service string) string {
	return c.baseURL + "Wcf/API25/" + service + ".svc"
}

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() CircuitState {
	return c.breaker.State()
}

// Call sends req and returns its out parameters. Faults come back as
// *Fault, wrapped with the operation name.
func (c *Client) Call(ctx context.Context, req *Request) (*Response, error) {
	op := req.Service + "." + req.Operation

	if err := c.sem.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer c.sem.Release()

	env, err := NewEnvelope().WithRequest(req)
	if err != nil {
		return nil, err
	}
	body, err := env.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%s: marshal envelope: %w", op, err)
	}

	callID := uuid.NewString()
	start := time.Now()
	c.logger.Debug("soap: call", "op", op, "call_id", callID, "session_id", c.sessionID)

	var respBody []byte
	err = c.breaker.Execute(func() error {
		return retry(ctx, c.retry, func(attempt int, err error, wait time.Duration) {
			c.logger.Warn("soap: retrying call", "op", op, "call_id", callID, "attempt", attempt, "wait", wait, "error", err)
		}, func() error {
			b, err := c.send(ctx, req, body)
			if err != nil {
				return err
			}
			respBody = b
			return nil
		})
	})
	if err != nil {
		c.logger.Debug("soap: call failed", "op", op, "call_id", callID, "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.logger.Debug("soap: call done", "op", op, "call_id", callID, "duration", time.Since(start), "bytes", len(respBody))

	resp, err := ParseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request, body []byte) ([]byte, error) {
	respBody, err := c.transport.PostSOAP(ctx, c.Endpoint(req.Service), req.Action(), body)
	if err != nil {
		// SOAP 1.1 faults travel with HTTP 500.
		var se *transport.StatusError
		if errors.As(err, &se) {
			if f, ferr := ParseFault(se.Body); ferr == nil && f != nil {
				return nil, f
			}
		}
		return nil, err
	}
	if err := CheckFault(respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}
