package retry

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
)

type Config struct {
	Delays    []time.Duration
	Retriable func(err error) bool
}

// DBRetryConfig retries only when PostgreSQL reports a connection-class failure.
var DBRetryConfig = Config{
	Delays:    []time.Duration{time.Second, 3 * time.Second, 5 * time.Second},
	Retriable: IsRetriablePGError,
}

func IsRetriablePGError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

func DoRetry(ctx context.Context, fn func() error, configs ...Config) error {
	_, err := DoRetryWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, fn()
	}, configs...)
	return err
}

func DoRetryWithResult[T any](ctx context.Context, fn func() (T, error), configs ...Config) (T, error) {
	cfg := DBRetryConfig
	if len(configs) > 0 {
		cfg = configs[0]
	}

	result, err := fn()
	for attempt, delay := range cfg.Delays {
		if err == nil || cfg.Retriable == nil || !cfg.Retriable(err) {
			return result, err
		}

		logger.Log.Warn("retriable error, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return result, errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}

		result, err = fn()
	}

	return result, err
}
