package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
	"github.com/tair/inventory-tracker/internal/inventory/metrics"
	"github.com/tair/inventory-tracker/pkg/logger"
)

// BreakerStore fails fast while the backing store keeps erroring.
// ErrNotFound is an answer, not a failure, and never trips the breaker.
type BreakerStore struct {
	next    domain.DocumentStore
	cb      *gobreaker.CircuitBreaker
	name    string
	metrics *metrics.Metrics
}

// NewBreakerStore wraps next in a circuit breaker reporting to m
func NewBreakerStore(next domain.DocumentStore, name string, m *metrics.Metrics) *BreakerStore {
	s := &BreakerStore{next: next, name: name, metrics: m}
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // Max requests allowed in half-open state
		Interval:    15 * time.Second, // Window to track failures
		Timeout:     30 * time.Second, // Time to wait before half-open
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			m.CircuitBreakerState.WithLabelValues(cbName).Set(stateValue(to))
			logger.Logger.Warn().
				Str("circuit", cbName).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	m.CircuitBreakerState.WithLabelValues(name).Set(0)
	return s
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// State returns the current breaker state name
func (s *BreakerStore) State() string {
	return s.cb.State().String()
}

func (s *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.cb.Execute(fn)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.metrics.CircuitBreakerFailures.WithLabelValues(s.name).Inc()
	}
	return result, err
}

func (s *BreakerStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	result, err := s.execute(func() (any, error) {
		return s.next.ListAll(ctx, collection)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Document), nil
}

func (s *BreakerStore) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	result, err := s.execute(func() (any, error) {
		return s.next.Get(ctx, collection, key)
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.Fields), nil
}

func (s *BreakerStore) Set(ctx context.Context, collection, key string, fields domain.Fields, merge bool) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.next.Set(ctx, collection, key, fields, merge)
	})
	return err
}

func (s *BreakerStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.next.Delete(ctx, collection, key)
	})
	return err
}

// Ping bypasses the breaker so health checks see the real backend state
func (s *BreakerStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *BreakerStore) Close() error {
	return s.next.Close()
}
