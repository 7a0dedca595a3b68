package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("appliance-rental-backend/internal/service")

// runTx bounds fn by timeout and traces it as one span. A unit that runs out of
// time reports domain.ErrTimeout.
func runTx(ctx context.Context, tx repository.Transactor, timeout time.Duration, name string, fn func(ctx context.Context, tx repository.Tx) error, attrs ...attribute.KeyValue) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	err := tx.WithinTx(ctx, fn)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		err = fmt.Errorf("%w: %s exceeded %s", domain.ErrTimeout, name, timeout)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
