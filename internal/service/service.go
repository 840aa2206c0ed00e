package service

import (
	"context"
	"fmt"
	"log/slog"

	"news_feed/internal/domain"
)

// passthrough returns classified errors unchanged and wraps the rest with op.
func passthrough(op string, err error) error {
	if domain.KindOf(err) != domain.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func publish(ctx context.Context, p Publisher, logger *slog.Logger, event domain.UserEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish user event",
			"action", event.Action,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
