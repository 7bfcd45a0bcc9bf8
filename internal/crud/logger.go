package crud

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/tourhub/tourhub/internal/authz"
	"github.com/tourhub/tourhub/internal/shared"
)

// Recorder receives one observation per service call.
type Recorder interface {
	ObserveOperation(entity, method string, code shared.ErrorCode, elapsed time.Duration)
}

// OperationLogger wraps service calls with structured logging, panic
// containment and metrics.
type OperationLogger struct {
	entity  string
	logger  *slog.Logger
	metrics Recorder
}

// NewOperationLogger builds an OperationLogger for entity. A nil logger
// discards output; a nil recorder skips metrics.
func NewOperationLogger(entity string, logger *slog.Logger, metrics Recorder) *OperationLogger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OperationLogger{
		entity:  entity,
		logger:  logger.With(slog.String("entity", entity)),
		metrics: metrics,
	}
}

// Entity returns the entity name used in log labels.
func (l *OperationLogger) Entity() string {
	return l.entity
}

// Run executes fn and converts its outcome into a Result. A *ServiceError is
// returned as is; any other error or panic becomes INTERNAL_ERROR.
func Run[R any](ctx context.Context, l *OperationLogger, method string, actor *authz.Actor, input any, fn func(context.Context) (R, error)) (result shared.Result[R]) {
	label := l.entity + "." + method
	started := time.Now()
	l.logger.LogAttrs(ctx, slog.LevelDebug, label+":start", actorAttr(actor), slog.Any("input", input))

	defer func() {
		if rec := recover(); rec != nil {
			l.logger.LogAttrs(ctx, slog.LevelError, label+":panic",
				actorAttr(actor),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			result = shared.Fail[R](shared.Internal(fmt.Errorf("panic: %v", rec)))
		}
		l.observe(method, result.Code(), time.Since(started))
	}()

	data, err := fn(ctx)
	if err == nil {
		l.logger.LogAttrs(ctx, slog.LevelInfo, label+":end",
			actorAttr(actor),
			slog.Duration("elapsed", time.Since(started)),
			slog.Any("result", data),
		)
		return shared.OK(data)
	}

	svcErr, ok := shared.AsServiceError(err)
	if !ok {
		svcErr = shared.Internal(err)
	}
	if svcErr.Code == shared.CodeInternal {
		l.logger.LogAttrs(ctx, slog.LevelError, label+":error",
			actorAttr(actor),
			slog.Any("input", input),
			slog.Any("error", err),
		)
		svcErr = shared.Internal(err)
	} else {
		l.logger.LogAttrs(ctx, slog.LevelWarn, label+":rejected",
			actorAttr(actor),
			slog.String("code", string(svcErr.Code)),
			slog.String("message", svcErr.Message),
		)
	}
	return shared.Fail[R](svcErr)
}

// Warn logs a non-fatal condition under the entity's method label.
func (l *OperationLogger) Warn(ctx context.Context, method, reason string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("reason", reason))
	l.logger.LogAttrs(ctx, slog.LevelWarn, l.entity+"."+method+":skipped", attrs...)
}

func (l *OperationLogger) observe(method string, code shared.ErrorCode, elapsed time.Duration) {
	if l.metrics == nil {
		return
	}
	l.metrics.ObserveOperation(l.entity, method, code, elapsed)
}

func actorAttr(actor *authz.Actor) slog.Attr {
	if actor == nil {
		return slog.String("actor", "anonymous")
	}
	return slog.Group("actor",
		slog.String("id", actor.ID.String()),
		slog.String("role", string(actor.Role)),
	)
}
