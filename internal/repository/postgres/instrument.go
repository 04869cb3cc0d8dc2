package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/observability"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// instrument starts a span for a repository operation and returns a finisher
// that records the outcome in the span and in the repository metrics.
func instrument(ctx context.Context, tracerName, operation string) (context.Context, trace.Span, func(err error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, operation)
	start := time.Now()

	return ctx, span, func(err error) {
		status := "success"
		switch {
		case err == nil:
		case stderrors.Is(err, pkgerrors.ErrTransactionNotFound), stderrors.Is(err, pkgerrors.ErrUserNotFound):
			status = "not_found"
		default:
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		observability.RepositoryCalls.WithLabelValues(operation, status).Inc()
		observability.RepositoryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		span.End()
	}
}

// rollback aborts dbTx and folds a rollback failure into err.
func rollback(dbTx interface{ Rollback() error }, method string, err error) error {
	if rbErr := dbTx.Rollback(); rbErr != nil {
		slog.Error("rollback failed", "method", method, "error", rbErr)
		return fmt.Errorf("rollback failed: %v; original error: %w", rbErr, err)
	}
	return err
}
