package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/entities"
	"ebench-backend/internal/repositories"
	"ebench-backend/internal/schema"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
)

type WorkOrderServiceInterface interface {
	Upsert(ctx context.Context, payload map[string]any, mode constants.SaveMode, attachments []entities.AttachmentRef) (*dto.WorkOrderDTO, error)
	FindByUnique(ctx context.Context, uniqueKey string) (*dto.WorkOrderDTO, error)
	FindByClerk(ctx context.Context, clerk string) ([]dto.WorkOrderDTO, error)
	FindByAuditor(ctx context.Context, auditor string) ([]dto.WorkOrderDTO, error)
	FindByStatus(ctx context.Context, externalLabel string) ([]dto.WorkOrderDTO, error)
	ListAll(ctx context.Context) ([]dto.WorkOrderDTO, error)
	UpdateStatus(ctx context.Context, req dto.UpdateWorkOrderStatusDTO) (*dto.WorkOrderDTO, error)
	UpdateProcess(ctx context.Context, req dto.UpdateProcessDTO) (int64, error)
}

// WorkOrderService mirrors the order lifecycle for production documents and
// adds the progress operation, which runs outside the upsert whitelist.
type WorkOrderService struct {
	repo     repositories.WorkOrderRepositoryInterface
	recorder *AuditRecorder
	logger   *zap.Logger
}

func NewWorkOrderService(repo repositories.WorkOrderRepositoryInterface, recorder *AuditRecorder, logger *zap.Logger) WorkOrderServiceInterface {
	return &WorkOrderService{repo: repo, recorder: recorder, logger: logger}
}

func (s *WorkOrderService) Upsert(ctx context.Context, payload map[string]any, mode constants.SaveMode, attachments []entities.AttachmentRef) (*dto.WorkOrderDTO, error) {
	doc, err := schema.Normalize(schema.WorkOrderSchema, payload, mode)
	if err != nil {
		return nil, err
	}

	status := mode.DefaultStatus()
	if doc.Status != "" {
		status, err = constants.ToInternal(doc.Status)
		if err != nil {
			return nil, err
		}
	}

	ident := schema.Allocate(schema.WorkOrderSchema.Prefix, doc.ExternalID, doc.Version)

	values := doc.Header
	values["work_number"] = ident.ExternalID
	values["work_ver"] = ident.Version
	values["work_unique"] = ident.UniqueKey
	values["status"] = string(status)
	if status == constants.StatusPendingReview {
		values["submitted_at"] = time.Now()
	}

	operator, _ := values["clerk"].(string)

	id, exists, err := s.repo.FindIDByUnique(ctx, ident.UniqueKey)
	if err != nil {
		return nil, err
	}

	if exists {
		err = s.repo.Update(ctx, id, values, doc.Lines, doc.Lines != nil, attachments)
	} else {
		_, err = s.repo.Create(ctx, values, doc.Lines, attachments)
		if conflictErr := err; apperrors.IsConflict(conflictErr) {
			id, exists, err = s.repo.FindIDByUnique(ctx, ident.UniqueKey)
			if err == nil {
				if !exists {
					return nil, conflictErr
				}
				err = s.repo.Update(ctx, id, values, doc.Lines, doc.Lines != nil, attachments)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	s.recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityWorkOrder,
		EntityID:   ident.ExternalID,
		Action:     upsertAction(exists, mode),
		Operator:   operator,
	})

	return s.FindByUnique(ctx, ident.UniqueKey)
}

func (s *WorkOrderService) FindByUnique(ctx context.Context, uniqueKey string) (*dto.WorkOrderDTO, error) {
	wo, err := s.repo.FindByUnique(ctx, uniqueKey)
	if err != nil {
		return nil, err
	}
	logs := s.recorder.History(ctx, constants.EntityWorkOrder, wo.WorkNumber)
	return dto.WorkOrderToDTO(wo, logs), nil
}

func (s *WorkOrderService) FindByClerk(ctx context.Context, clerk string) ([]dto.WorkOrderDTO, error) {
	workOrders, err := s.repo.FindByClerk(ctx, clerk)
	if err != nil {
		return nil, err
	}
	return dto.WorkOrdersToDTO(workOrders), nil
}

func (s *WorkOrderService) FindByAuditor(ctx context.Context, auditor string) ([]dto.WorkOrderDTO, error) {
	workOrders, err := s.repo.FindByAuditor(ctx, auditor)
	if err != nil {
		return nil, err
	}
	return dto.WorkOrdersToDTO(workOrders), nil
}

func (s *WorkOrderService) FindByStatus(ctx context.Context, externalLabel string) ([]dto.WorkOrderDTO, error) {
	status, err := constants.ToInternal(externalLabel)
	if err != nil {
		return nil, err
	}
	workOrders, err := s.repo.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, err
	}
	return dto.WorkOrdersToDTO(workOrders), nil
}

func (s *WorkOrderService) ListAll(ctx context.Context) ([]dto.WorkOrderDTO, error) {
	workOrders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.WorkOrdersToDTO(workOrders), nil
}

func (s *WorkOrderService) UpdateStatus(ctx context.Context, req dto.UpdateWorkOrderStatusDTO) (*dto.WorkOrderDTO, error) {
	status, err := constants.ToInternal(req.Status)
	if err != nil {
		return nil, err
	}

	values := map[string]any{"status": string(status)}
	if status.StampsAuditor() {
		values["auditor"] = req.WorkAudit
		values["audited_at"] = time.Now()
	}

	workNumber, err := s.repo.UpdateStatus(ctx, req.WorkUnique, values)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityWorkOrder,
		EntityID:   workNumber,
		Action:     constants.ActionStatusChange,
		Operator:   req.WorkAudit,
		Comment:    statusComment(req.Status, req.Comment),
	})

	return s.FindByUnique(ctx, req.WorkUnique)
}

// UpdateProcess advances production progress across every version of one
// work number and reports how many rows it touched.
func (s *WorkOrderService) UpdateProcess(ctx context.Context, req dto.UpdateProcessDTO) (int64, error) {
	affected, err := s.repo.UpdateProgress(ctx, req.WorkID, req.Process, req.DangQianJinDu)
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, apperrors.NewNotFoundError("work order")
	}

	s.recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityWorkOrder,
		EntityID:   req.WorkID,
		Action:     constants.ActionProgressUpdate,
		Comment:    fmt.Sprintf("%d%% %s", req.Process, req.DangQianJinDu),
	})
	return affected, nil
}
