package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"todochat/internal/domain"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerConfig configures the circuit breaker behavior.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before transitioning to half-open.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure
	// counts. If 0, failures never reset until the circuit opens.
	Interval time.Duration
}

// Breaker wraps a ChatService with circuit breaker protection. When the
// service fails repeatedly, the circuit opens and subsequent sends fail fast
// without reaching the network, so the user gets an immediate banner instead
// of a hung spinner during an outage.
type Breaker struct {
	inner   domain.ChatService
	send    *gobreaker.CircuitBreaker[*domain.SendResult]
	history *gobreaker.CircuitBreaker[*domain.History]
}

var _ domain.ChatService = (*Breaker)(nil)

// NewBreaker wraps inner with a circuit breaker.
// If cfg is zero-valued, sensible defaults are used.
func NewBreaker(inner domain.ChatService, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 1, // allow 1 probe in half-open state
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
			IsSuccessful: func(err error) bool {
				return err == nil
			},
		}
	}

	// "No history yet" is an expected signal, not a service failure; it must
	// never trip the history breaker.
	historySettings := settings("chat:history")
	historySettings.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, domain.ErrNoHistory)
	}

	return &Breaker{
		inner:   inner,
		send:    gobreaker.NewCircuitBreaker[*domain.SendResult](settings("chat:send")),
		history: gobreaker.NewCircuitBreaker[*domain.History](historySettings),
	}
}

// SendMessage implements domain.ChatService through the breaker.
func (b *Breaker) SendMessage(ctx context.Context, req domain.SendRequest) (*domain.SendResult, error) {
	return b.send.Execute(func() (*domain.SendResult, error) {
		return b.inner.SendMessage(ctx, req)
	})
}

// History implements domain.ChatService through its own breaker, so a send
// outage does not block the initial history load and vice versa.
func (b *Breaker) History(ctx context.Context) (*domain.History, error) {
	return b.history.Execute(func() (*domain.History, error) {
		return b.inner.History(ctx)
	})
}
