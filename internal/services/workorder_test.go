package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/entities"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
)

type fakeWorkOrderRepo struct {
	lookups         []idLookup
	byUnique        map[string]*entities.WorkOrder
	createErr       error
	createdValues   map[string]any
	createdLines    []map[string]any
	updateCalled    bool
	statusValues    map[string]any
	progressNumber  string
	progressPercent int
	progressNote    string
	progressRows    int64
}

func (f *fakeWorkOrderRepo) FindIDByUnique(_ context.Context, _ string) (int64, bool, error) {
	if len(f.lookups) == 0 {
		return 0, false, nil
	}
	next := f.lookups[0]
	f.lookups = f.lookups[1:]
	return next.id, next.exists, nil
}

func (f *fakeWorkOrderRepo) FindByUnique(_ context.Context, uniqueKey string) (*entities.WorkOrder, error) {
	if wo, ok := f.byUnique[uniqueKey]; ok {
		return wo, nil
	}
	return nil, apperrors.NewNotFoundError("work order")
}

func (f *fakeWorkOrderRepo) FindByClerk(_ context.Context, clerk string) ([]entities.WorkOrder, error) {
	out := make([]entities.WorkOrder, 0)
	for _, wo := range f.byUnique {
		if wo.Clerk.String == clerk {
			out = append(out, *wo)
		}
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) FindByAuditor(_ context.Context, _ string) ([]entities.WorkOrder, error) {
	return nil, nil
}

func (f *fakeWorkOrderRepo) FindByStatus(_ context.Context, status string) ([]entities.WorkOrder, error) {
	out := make([]entities.WorkOrder, 0)
	for _, wo := range f.byUnique {
		if wo.Status == status {
			out = append(out, *wo)
		}
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) ListAll(_ context.Context) ([]entities.WorkOrder, error) {
	out := make([]entities.WorkOrder, 0)
	for _, wo := range f.byUnique {
		out = append(out, *wo)
	}
	return out, nil
}

func (f *fakeWorkOrderRepo) Create(_ context.Context, values map[string]any, lines []map[string]any, _ []entities.AttachmentRef) (int64, error) {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return 0, err
	}
	f.createdValues = values
	f.createdLines = lines
	return 1, nil
}

func (f *fakeWorkOrderRepo) Update(_ context.Context, _ int64, _ map[string]any, _ []map[string]any, _ bool, _ []entities.AttachmentRef) error {
	f.updateCalled = true
	return nil
}

func (f *fakeWorkOrderRepo) UpdateStatus(_ context.Context, uniqueKey string, values map[string]any) (string, error) {
	wo, ok := f.byUnique[uniqueKey]
	if !ok {
		return "", apperrors.NewNotFoundError("work order")
	}
	f.statusValues = values
	wo.Status = values["status"].(string)
	return wo.WorkNumber, nil
}

func (f *fakeWorkOrderRepo) UpdateProgress(_ context.Context, workNumber string, percent int, note string) (int64, error) {
	f.progressNumber = workNumber
	f.progressPercent = percent
	f.progressNote = note
	return f.progressRows, nil
}

func storedWorkOrder(uniqueKey, number, status string) *entities.WorkOrder {
	return &entities.WorkOrder{
		ID:         1,
		WorkNumber: number,
		WorkVer:    "V1",
		WorkUnique: uniqueKey,
		Status:     status,
		Customer:   null.StringFrom("ACME Press"),
		Clerk:      null.StringFrom("li"),
	}
}

func TestWorkOrderUpsertCreates(t *testing.T) {
	repo := &fakeWorkOrderRepo{byUnique: map[string]*entities.WorkOrder{}}
	auditRepo := &fakeAuditRepo{}
	svc := NewWorkOrderService(repo, newTestRecorder(t, auditRepo), zap.NewNop())

	payload := map[string]any{
		"customer":   "ACME Press",
		"work_clerk": "li",
		"intermedia": []any{
			map[string]any{"buJianMingCheng": "cover", "kaiShu": float64(16)},
			map[string]any{"yinSun": float64(200)},
		},
	}

	_, err := svc.Upsert(context.Background(), payload, constants.ModeSubmit, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))

	require.NotNil(t, repo.createdValues)
	assert.Equal(t, "PENDING_REVIEW", repo.createdValues["status"])
	assert.Equal(t, "li", repo.createdValues["clerk"])
	assert.NotEmpty(t, repo.createdValues["work_number"])

	// The second row has no identifying field and is dropped.
	require.Len(t, repo.createdLines, 1)
	assert.Equal(t, int64(16), repo.createdLines[0]["cut_count"])

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, constants.EntityWorkOrder, auditRepo.entries[0].EntityType)
	assert.Equal(t, constants.ActionSubmit, auditRepo.entries[0].Action)
}

func TestWorkOrderUpsertConflictWithMissingRowStaysConflict(t *testing.T) {
	repo := &fakeWorkOrderRepo{
		lookups:   []idLookup{{exists: false}, {exists: false}},
		byUnique:  map[string]*entities.WorkOrder{},
		createErr: apperrors.NewConflictError("WK-1_V1", errors.New("duplicate key")),
	}
	auditRepo := &fakeAuditRepo{}
	svc := NewWorkOrderService(repo, newTestRecorder(t, auditRepo), zap.NewNop())

	payload := map[string]any{
		"work_id":  "WK-1",
		"customer": "ACME Press",
	}

	_, err := svc.Upsert(context.Background(), payload, constants.ModeSubmit, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.False(t, repo.updateCalled)
	assert.Empty(t, auditRepo.entries)
}

func TestWorkOrderUpdateStatusStampsAuditor(t *testing.T) {
	existing := storedWorkOrder("WK-1_V1", "WK-1", "PENDING_REVIEW")
	repo := &fakeWorkOrderRepo{byUnique: map[string]*entities.WorkOrder{"WK-1_V1": existing}}
	auditRepo := &fakeAuditRepo{}
	svc := NewWorkOrderService(repo, newTestRecorder(t, auditRepo), zap.NewNop())

	res, err := svc.UpdateStatus(context.Background(), dto.UpdateWorkOrderStatusDTO{
		WorkUnique: "WK-1_V1",
		Status:     "驳回",
		WorkAudit:  "chen",
		Comment:    "missing material spec",
	})
	require.NoError(t, err)

	assert.Equal(t, "chen", repo.statusValues["auditor"])
	assert.NotNil(t, repo.statusValues["audited_at"])
	assert.Equal(t, "驳回", res.WorkOrderStatus)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, "驳回: missing material spec", auditRepo.entries[0].Comment)
}

func TestWorkOrderUpdateProcess(t *testing.T) {
	repo := &fakeWorkOrderRepo{progressRows: 2}
	auditRepo := &fakeAuditRepo{}
	svc := NewWorkOrderService(repo, newTestRecorder(t, auditRepo), zap.NewNop())

	affected, err := svc.UpdateProcess(context.Background(), dto.UpdateProcessDTO{
		WorkID:        "WK-1",
		Process:       60,
		DangQianJinDu: "binding",
	})
	require.NoError(t, err)

	// Progress applies across every version of the work number.
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, "WK-1", repo.progressNumber)
	assert.Equal(t, 60, repo.progressPercent)
	assert.Equal(t, "binding", repo.progressNote)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, constants.ActionProgressUpdate, auditRepo.entries[0].Action)
	assert.Equal(t, "60% binding", auditRepo.entries[0].Comment)
}

func TestWorkOrderUpdateProcessUnknownNumber(t *testing.T) {
	repo := &fakeWorkOrderRepo{progressRows: 0}
	auditRepo := &fakeAuditRepo{}
	svc := NewWorkOrderService(repo, newTestRecorder(t, auditRepo), zap.NewNop())

	_, err := svc.UpdateProcess(context.Background(), dto.UpdateProcessDTO{WorkID: "WK-404", Process: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, auditRepo.entries)
}

func TestWorkOrderFindByClerk(t *testing.T) {
	existing := storedWorkOrder("WK-1_V1", "WK-1", "IN_PRODUCTION")
	repo := &fakeWorkOrderRepo{byUnique: map[string]*entities.WorkOrder{"WK-1_V1": existing}}
	svc := NewWorkOrderService(repo, newTestRecorder(t, &fakeAuditRepo{}), zap.NewNop())

	res, err := svc.FindByClerk(context.Background(), "li")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "WK-1", res[0].WorkID)
	assert.Equal(t, "生产中", res[0].WorkOrderStatus)
}
