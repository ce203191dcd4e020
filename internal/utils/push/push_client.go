// Package push delivers mobile push notifications through an HTTP push
// gateway (Expo compatible payload). Calls go through a circuit breaker so a
// failing gateway does not slow down request handling.
package push

import (
	"Recipe-Platform/internal/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	gobreaker "github.com/sony/gobreaker/v2"
)

var ErrNotConfigured = errors.New("push gateway not configured")

type (
	Message struct {
		To    string            `json:"to"`
		Title string            `json:"title"`
		Body  string            `json:"body"`
		Data  map[string]string `json:"data,omitempty"`
	}

	Sender interface {
		Send(ctx context.Context, msg Message) error
	}

	Config struct {
		URL              string
		AccessToken      string
		Timeout          time.Duration
		FailureThreshold uint32
		OpenTimeout      time.Duration
	}

	client struct {
		cfg     Config
		http    *fiber.Client
		breaker *gobreaker.CircuitBreaker[interface{}]
	}
)

func LoadConfig() Config {
	return Config{
		URL:              utils.GetConfig("PUSH_API_URL"),
		AccessToken:      utils.GetConfig("PUSH_ACCESS_TOKEN"),
		Timeout:          5 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

func NewSender(cfg Config) Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "push-gateway",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}

	return &client{
		cfg: cfg,
		http: &fiber.Client{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

func (c *client) Send(ctx context.Context, msg Message) error {
	if c.cfg.URL == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, msg)
	})
	return err
}

func (c *client) post(ctx context.Context, msg Message) error {
	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := c.http.Post(c.cfg.URL)
	if c.cfg.AccessToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.cfg.AccessToken)
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.JSON(msg)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("push request: %w", errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("push gateway returned %d: %s", code, string(body))
	}
	return nil
}
