package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ebench-backend/internal/entities"
	"ebench-backend/pkg/constants"
)

func TestRecordWritesThrough(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	recorder := newTestRecorder(t, auditRepo)

	recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityOrder,
		EntityID:   "AUTO-1",
		Action:     constants.ActionSubmit,
		Operator:   "wang",
	})

	require.Len(t, auditRepo.entries, 1)
	assert.False(t, auditRepo.entries[0].Time.IsZero(), "Record must stamp the time")
}

func TestRecordQueuesOnStoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	auditRepo := &fakeAuditRepo{failInsert: true}
	recorder := NewAuditRecorder(auditRepo, rdb, zap.NewNop(), time.Second)

	// Must not panic or block even though the store is down.
	recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityOrder,
		EntityID:   "AUTO-1",
		Action:     constants.ActionSubmit,
	})

	queued, err := rdb.LLen(context.Background(), auditRetryKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued)
}

func TestFlushRetriesDrainsQueue(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	auditRepo := &fakeAuditRepo{failInsert: true}
	recorder := NewAuditRecorder(auditRepo, rdb, zap.NewNop(), time.Second)

	recorder.Record(entities.AuditEntry{EntityType: constants.EntityOrder, EntityID: "AUTO-1", Action: constants.ActionSubmit})
	recorder.Record(entities.AuditEntry{EntityType: constants.EntityOrder, EntityID: "AUTO-2", Action: constants.ActionSaveDraft})

	// Store comes back up; the flusher writes both queued entries.
	auditRepo.failInsert = false
	recorder.flushRetries(context.Background())

	require.Len(t, auditRepo.entries, 2)
	queued, err := rdb.LLen(context.Background(), auditRetryKey).Result()
	require.NoError(t, err)
	assert.Zero(t, queued)

	// Entries come back in the order they were recorded.
	assert.Equal(t, "AUTO-1", auditRepo.entries[0].EntityID)
	assert.Equal(t, "AUTO-2", auditRepo.entries[1].EntityID)
}

func TestFlushRetriesRequeuesWhileStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	auditRepo := &fakeAuditRepo{failInsert: true}
	recorder := NewAuditRecorder(auditRepo, rdb, zap.NewNop(), time.Second)

	recorder.Record(entities.AuditEntry{EntityType: constants.EntityOrder, EntityID: "AUTO-1", Action: constants.ActionSubmit})

	recorder.flushRetries(context.Background())

	queued, err := rdb.LLen(context.Background(), auditRetryKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued, "entry must stay queued while the store is down")
}

func TestHistoryDegradesToEmpty(t *testing.T) {
	auditRepo := &fakeAuditRepo{entries: []entities.AuditEntry{
		{EntityType: constants.EntityOrder, EntityID: "AUTO-1", Action: constants.ActionSubmit},
	}}
	recorder := newTestRecorder(t, auditRepo)

	history := recorder.History(context.Background(), constants.EntityOrder, "AUTO-1")
	require.Len(t, history, 1)

	history = recorder.History(context.Background(), constants.EntityWorkOrder, "WK-404")
	assert.Empty(t, history)
}
