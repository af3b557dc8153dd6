package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// FatalError stops retrying immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal marks err as not worth retrying.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// ErrAttemptsExceeded is returned when every attempt failed.
var ErrAttemptsExceeded = errors.New("max attempts exceeded")

// Config controls Do.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RateLimitDelay time.Duration
	Multiplier     float64
	Jitter         bool
	Logger         zerolog.Logger
}

// DefaultConfig suits interactive API calls: a handful of attempts with
// exponential backoff.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
		Logger:         zerolog.Nop(),
	}
}

// Do calls fn until it succeeds, returns a FatalError, ctx is done, or
// cfg.MaxAttempts is reached. lim may be nil.
func Do(ctx context.Context, cfg Config, lim *AdaptiveLimiter, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				cfg.Logger.Info().Int("attempt", attempt).Msg("succeeded after retry")
			}
			return nil
		}
		lastErr = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return err
		}

		wait := delay
		switch {
		case IsRateLimited(err):
			if lim != nil {
				lim.RateLimited()
			}
			wait = cfg.RateLimitDelay
		case IsServerError(err):
			if lim != nil {
				lim.RateLimited()
			}
		}
		if cfg.Jitter {
			wait = jitter(wait)
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		cfg.Logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("call failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if !IsRateLimited(err) {
			delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
		}
	}
	return fmt.Errorf("%w (%d): %w", ErrAttemptsExceeded, cfg.MaxAttempts, lastErr)
}

// IsRateLimited reports whether err carries status 429.
func IsRateLimited(err error) bool {
	var se StatusError
	return errors.As(err, &se) && se.StatusCode() == http.StatusTooManyRequests
}

// IsServerError reports whether err carries a 5xx status.
func IsServerError(err error) bool {
	var se StatusError
	if !errors.As(err, &se) {
		return false
	}
	code := se.StatusCode()
	return code >= 500 && code < 600
}

func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + rand.N(d/4)
}
