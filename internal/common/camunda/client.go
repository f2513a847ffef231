// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"seasonal-story-workers/internal/common/logger"
)

// Client wraps the Zeebe gRPC client with a connect retry and a health check.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines how Connect waits for a gateway that is still starting.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// newZeebeClient is replaced in tests.
var newZeebeClient = func(cfg *zbc.ClientConfig) (zbc.Client, error) {
	return zbc.NewClient(cfg)
}

// Connect dials the gateway and confirms it answers a topology request. Transient
// failures are retried with exponential backoff until ctx ends or retries run out.
func Connect(ctx context.Context, cfg *ClientConfig, log logger.Logger) (*Client, error) {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig
	}
	if cfg.ConnectionTimeout <= 0 {
		cfg.ConnectionTimeout = 10 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.RetryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(cfg.RetryConfig, attempt)
			log.Warn("zeebe connection failed, retrying", map[string]interface{}{
				"gateway":     cfg.GatewayAddress,
				"attempt":     attempt,
				"maxRetries":  cfg.RetryConfig.MaxRetries,
				"nextRetryIn": delay.String(),
				"error":       lastErr.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connect to zeebe cancelled after %d attempts: %w", attempt, ctx.Err())
			}
		}

		c, err := dial(ctx, cfg)
		if err == nil {
			log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.GatewayAddress})
			return c, nil
		}
		lastErr = err
		if !isRetryableZeebeError(err) {
			break
		}
	}
	return nil, fmt.Errorf("connect to zeebe at %s: %w", cfg.GatewayAddress, lastErr)
}

func dial(ctx context.Context, cfg *ClientConfig) (*Client, error) {
	zc, err := newZeebeClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{client: zc, config: cfg}
	if err := c.HealthCheck(ctx); err != nil {
		_ = zc.Close()
		return nil, err
	}
	return c, nil
}

func backoffDelay(rc *RetryConfig, attempt int) time.Duration {
	if attempt > 30 {
		return rc.MaxDelay
	}
	delay := rc.BaseDelay * time.Duration(1<<(attempt-1))
	if delay > rc.MaxDelay || delay <= 0 {
		delay = rc.MaxDelay
	}
	return delay
}

// GetClient returns the raw Zeebe client for opening job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck sends a topology request; it backs the /ready endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
