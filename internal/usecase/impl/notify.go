package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
)

const notificationWriteTimeout = 5 * time.Second

// notifier fans out in-app notifications. Like the audit sink, writes are
// fire-and-forget: a failure is logged and never fails the operation.
type notifier struct {
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

func newNotifier(notificationRepo repository.NotificationRepository, logger *slog.Logger) *notifier {
	return &notifier{notificationRepo: notificationRepo, logger: logger}
}

// send delivers the notifications asynchronously with a detached context.
func (n *notifier) send(ctx context.Context, notifications ...*entity.Notification) {
	if len(notifications) == 0 {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, n.logger)

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), notificationWriteTimeout)
		defer cancel()

		if err := n.notificationRepo.CreateBatch(writeCtx, notifications); err != nil {
			logger.LogAttrs(writeCtx, slog.LevelWarn, "Notification write failed",
				slog.Int("count", len(notifications)),
				slog.Any("error", err),
			)
		}
	}()
}
