// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
)

const auditWriteTimeout = 5 * time.Second

// auditor writes activity records fire-and-forget: a failed write is logged
// and never fails the operation that produced it.
type auditor struct {
	activityRepo repository.ActivityRepository
	logger       *slog.Logger
}

func newAuditor(activityRepo repository.ActivityRepository, logger *slog.Logger) *auditor {
	return &auditor{activityRepo: activityRepo, logger: logger}
}

// record appends one audit entry asynchronously. The write gets its own
// context so it survives the request's cancellation.
func (a *auditor) record(ctx context.Context, userID uuid.UUID, action string, details map[string]any, meta usecase.RequestMeta, resourceType string, resourceID *uuid.UUID) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, a.logger)
	requestID := deliverycontext.GetRequestIDFromContext(ctx)

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		activity := &entity.Activity{
			UserID:       userID,
			Action:       action,
			Details:      details,
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
			ResourceType: resourceType,
			ResourceID:   resourceID,
		}

		if err := a.activityRepo.Create(writeCtx, activity); err != nil {
			logger.LogAttrs(writeCtx, slog.LevelWarn, "Audit write failed",
				slog.String("action", action),
				slog.String("userID", userID.String()),
				slog.String("requestID", requestID),
				slog.Any("error", err),
			)
		}
	}()
}
