package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"ebench-backend/internal/entities"
	"ebench-backend/internal/repositories"
	"ebench-backend/pkg/apperrors"
)

// auditRetryKey is the Redis list holding audit entries whose document-store
// write failed; a background flusher drains it.
const auditRetryKey = "audit:retry"

// AuditRecorder writes lifecycle events to the append-only trail. Writes are
// best effort: a failure is logged and queued for retry, it never becomes an
// error on the caller's request path.
type AuditRecorder struct {
	repo     repositories.AuditRepositoryInterface
	redis    *redis.Client
	logger   *zap.Logger
	writeTTL time.Duration
}

func NewAuditRecorder(repo repositories.AuditRepositoryInterface, rdb *redis.Client, logger *zap.Logger, writeTTL time.Duration) *AuditRecorder {
	return &AuditRecorder{repo: repo, redis: rdb, logger: logger, writeTTL: writeTTL}
}

// Record appends one entry to the trail. It runs under its own short
// deadline, detached from the request context, so a slow secondary store
// cannot stall the primary response.
func (a *AuditRecorder) Record(entry entities.AuditEntry) {
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.writeTTL)
	defer cancel()

	if err := a.repo.Insert(ctx, entry); err != nil {
		a.logger.Warn("audit write failed, queueing for retry",
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("action", entry.Action),
			zap.Error(apperrors.ErrAuditWrite),
			zap.NamedError("cause", err))
		a.enqueueRetry(ctx, entry)
	}
}

func (a *AuditRecorder) enqueueRetry(ctx context.Context, entry entities.AuditEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		a.logger.Error("failed to marshal audit entry for retry", zap.Error(err))
		return
	}
	if err := a.redis.LPush(ctx, auditRetryKey, payload).Err(); err != nil {
		// Both stores down: the entry is lost. The trail tolerates gaps,
		// the primary write already succeeded.
		a.logger.Error("failed to queue audit entry for retry", zap.Error(err))
	}
}

// History loads the trail for one entity, oldest first. Read failures
// degrade to an empty history so a document read still succeeds.
func (a *AuditRecorder) History(ctx context.Context, entityType, entityID string) []entities.AuditEntry {
	entries, err := a.repo.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		a.logger.Warn("failed to load audit history",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
		return nil
	}
	return entries
}

// RunRetryFlusher drains the retry queue until ctx is cancelled. Entries
// that still cannot be written go back to the queue and the loop backs off.
func (a *AuditRecorder) RunRetryFlusher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.flushRetries(ctx)
		}
	}
}

func (a *AuditRecorder) flushRetries(ctx context.Context) {
	for {
		payload, err := a.redis.RPop(ctx, auditRetryKey).Result()
		if err == redis.Nil {
			return
		}
		if err != nil {
			a.logger.Warn("failed to read audit retry queue", zap.Error(err))
			return
		}

		var entry entities.AuditEntry
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			a.logger.Error("dropping malformed audit retry entry", zap.Error(err))
			continue
		}

		writeCtx, cancel := context.WithTimeout(ctx, a.writeTTL)
		err = a.repo.Insert(writeCtx, entry)
		cancel()
		if err != nil {
			// Still down: put it back and wait for the next tick.
			if pushErr := a.redis.LPush(ctx, auditRetryKey, payload).Err(); pushErr != nil {
				a.logger.Error("failed to requeue audit entry", zap.Error(pushErr))
			}
			return
		}
		a.logger.Info("flushed queued audit entry",
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("action", entry.Action))
	}
}
