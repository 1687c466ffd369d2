// Package eventbus holds publisher helpers shared by the engines.
package eventbus

import (
	"context"

	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces"
	"go.uber.org/zap"
)

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Emit publishes event after a unit of work has committed. The ledger is the
// source of truth, so a failed publish is logged and never surfaces.
func Emit(ctx context.Context, pub interfaces.EventPublisher, logger *zap.Logger, topic string, event any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, event); err != nil {
		logger.Warn("publish event failed", zap.String("topic", topic), zap.Error(err))
	}
}

var _ interfaces.EventPublisher = NopPublisher{}
