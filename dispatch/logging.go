package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/sarum90/ziffect/intent"
)

// WithLogging decorates a dispatcher so every lookup and performer outcome
// is logged at debug level. Substituted at composition time; the engine
// itself stays unaware of it.
func WithLogging(d Dispatcher, logger *zap.Logger) Dispatcher {
	return loggingDispatcher{next: d, logger: logger}
}

type loggingDispatcher struct {
	next   Dispatcher
	logger *zap.Logger
}

func (ld loggingDispatcher) Lookup(key intent.Key) (Performer, bool) {
	p, ok := ld.next.Lookup(key)
	if !ok {
		ld.logger.Debug("performer missing",
			zap.String("operation", key.Operation),
			zap.String("interface", key.Interface.String()),
		)
		return nil, false
	}
	return func(ctx context.Context, in intent.Intent) (any, error) {
		ld.logger.Debug("dispatching intent", zap.Stringer("intent", in))
		v, err := p(ctx, in)
		if err != nil {
			ld.logger.Debug("performer failed", zap.Stringer("intent", in), zap.Error(err))
			return v, err
		}
		ld.logger.Debug("performer resumed", zap.Stringer("intent", in), zap.Any("value", v))
		return v, nil
	}, true
}
