// Package automation runs the trigger, action and search handlers that the
// host automation platform invokes against the ERP API.
//
// Every handler is built from a row of the resource table and talks to the
// backend through a domain Requester. Handlers hold no mutable state and can
// be shared between goroutines.
package automation

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/logger"
	"github.com/erp/automation/internal/infrastructure/telemetry"
)

// Kind groups handlers in metrics, logs and the catalog
type Kind string

const (
	KindTrigger Kind = "trigger"
	KindAction  Kind = "action"
	KindSearch  Kind = "search"
	KindAuth    Kind = "auth"
)

// Error kinds reported by ErrorKind
const (
	ErrorKindAuthentication = "authentication"
	ErrorKindThrottled      = "throttled"
	ErrorKindAPI            = "api"
	ErrorKindValidation     = "validation"
	ErrorKindCanceled       = "canceled"
	ErrorKindTransport      = "transport"
)

// ErrorKind classifies err for metrics and logs. It returns "" for nil.
func ErrorKind(err error) string {
	var (
		authErr   *domain.AuthenticationError
		throttled *domain.ThrottledError
		apiErr    *domain.APIError
		valErr    *domain.ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr), errors.Is(err, domain.ErrMissingCredentials):
		return ErrorKindAuthentication
	case errors.As(err, &throttled):
		return ErrorKindThrottled
	case errors.As(err, &apiErr):
		return ErrorKindAPI
	case errors.As(err, &valErr),
		errors.Is(err, domain.ErrMissingTargetURL),
		errors.Is(err, domain.ErrMissingSubscribeID),
		errors.Is(err, domain.ErrInvalidSignature):
		return ErrorKindValidation
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	default:
		return ErrorKindTransport
	}
}

// instrumentation wraps every handler invocation in a span, a metric and a log line
type instrumentation struct {
	logger  *zap.Logger
	metrics *telemetry.AutomationMetrics
}

func (in instrumentation) run(ctx context.Context, kind Kind, key, op string, fn func(context.Context) error) error {
	ctx = logger.WithHandlerKey(ctx, key)
	ctx, span := telemetry.StartSpan(ctx, "automation."+string(kind)+"."+op, trace.SpanKindInternal,
		telemetry.AttrHandlerKind.String(string(kind)),
		telemetry.AttrHandlerKey.String(key),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	errKind := ErrorKind(err)
	in.metrics.RecordInvocation(ctx, string(kind), key, errKind)

	log := logger.WithLogger(ctx, logger.FromContextOr(ctx, in.logger))
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("operation", op),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		telemetry.RecordError(span, err)
		telemetry.SetAttributes(span, "automation.error_kind", errKind)
		log.Warn("Automation handler failed", append(fields, zap.String("error_kind", errKind), zap.Error(err))...)
		return err
	}
	log.Debug("Automation handler completed", fields...)
	return nil
}
