package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/entities"
	"ebench-backend/internal/repositories"
	"ebench-backend/internal/schema"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
)

type OrderServiceInterface interface {
	Upsert(ctx context.Context, payload map[string]any, mode constants.SaveMode, attachments []entities.AttachmentRef) (*dto.OrderDTO, error)
	FindByUnique(ctx context.Context, uniqueKey string) (*dto.OrderDTO, error)
	FindBySales(ctx context.Context, sales string) ([]dto.OrderDTO, error)
	FindByAuditor(ctx context.Context, auditor string) ([]dto.OrderDTO, error)
	FindByStatus(ctx context.Context, externalLabel string) ([]dto.OrderDTO, error)
	ListAll(ctx context.Context) ([]dto.OrderDTO, error)
	UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusDTO) (*dto.OrderDTO, error)
	Delete(ctx context.Context, uniqueKey, operator string) (string, error)
}

// OrderService orchestrates the order lifecycle: normalization, identifier
// allocation, the create-or-update decision, and the audit trail.
type OrderService struct {
	repo     repositories.OrderRepositoryInterface
	recorder *AuditRecorder
	logger   *zap.Logger
}

func NewOrderService(repo repositories.OrderRepositoryInterface, recorder *AuditRecorder, logger *zap.Logger) OrderServiceInterface {
	return &OrderService{repo: repo, recorder: recorder, logger: logger}
}

// Upsert saves one order from a raw client payload. The same entry point
// serves create and update: existence of the composite key decides which.
func (s *OrderService) Upsert(ctx context.Context, payload map[string]any, mode constants.SaveMode, attachments []entities.AttachmentRef) (*dto.OrderDTO, error) {
	doc, err := schema.Normalize(schema.OrderSchema, payload, mode)
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

	ident := schema.Allocate(schema.OrderSchema.Prefix, doc.ExternalID, doc.Version)

	values := doc.Header
	values["order_number"] = ident.ExternalID
	values["order_ver"] = ident.Version
	values["order_unique"] = ident.UniqueKey
	values["status"] = string(status)
	if status == constants.StatusPendingReview {
		values["submitted_at"] = time.Now()
	}

	operator, _ := values["sales"].(string)

	id, exists, err := s.repo.FindIDByUnique(ctx, ident.UniqueKey)
	if err != nil {
		return nil, err
	}

	if exists {
		err = s.repo.Update(ctx, id, values, doc.Lines, doc.Lines != nil, attachments)
	} else {
		_, err = s.repo.Create(ctx, values, doc.Lines, attachments)
		if conflictErr := err; apperrors.IsConflict(conflictErr) {
			// Lost the race between existence check and insert; the row is
			// there now, so retry once as an update. If the re-lookup still
			// misses, nothing was persisted: surface the conflict as is.
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
		EntityType: constants.EntityOrder,
		EntityID:   ident.ExternalID,
		Action:     upsertAction(exists, mode),
		Operator:   operator,
	})

	return s.FindByUnique(ctx, ident.UniqueKey)
}

func upsertAction(existed bool, mode constants.SaveMode) string {
	switch {
	case existed && mode == constants.ModeSubmit:
		return constants.ActionUpdateSubmit
	case existed:
		return constants.ActionUpdateDraft
	case mode == constants.ModeSubmit:
		return constants.ActionSubmit
	default:
		return constants.ActionSaveDraft
	}
}

func (s *OrderService) FindByUnique(ctx context.Context, uniqueKey string) (*dto.OrderDTO, error) {
	order, err := s.repo.FindByUnique(ctx, uniqueKey)
	if err != nil {
		return nil, err
	}
	logs := s.recorder.History(ctx, constants.EntityOrder, order.OrderNumber)
	return dto.OrderToDTO(order, logs), nil
}

func (s *OrderService) FindBySales(ctx context.Context, sales string) ([]dto.OrderDTO, error) {
	orders, err := s.repo.FindBySales(ctx, sales)
	if err != nil {
		return nil, err
	}
	return dto.OrdersToDTO(orders), nil
}

func (s *OrderService) FindByAuditor(ctx context.Context, auditor string) ([]dto.OrderDTO, error) {
	orders, err := s.repo.FindByAuditor(ctx, auditor)
	if err != nil {
		return nil, err
	}
	return dto.OrdersToDTO(orders), nil
}

// FindByStatus filters by the external label; an unrecognized label is a
// client error, not an empty result.
func (s *OrderService) FindByStatus(ctx context.Context, externalLabel string) ([]dto.OrderDTO, error) {
	status, err := constants.ToInternal(externalLabel)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, err
	}
	return dto.OrdersToDTO(orders), nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]dto.OrderDTO, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.OrdersToDTO(orders), nil
}

// UpdateStatus moves an order through the review lifecycle. Approval
// decisions stamp the auditor and decision time.
func (s *OrderService) UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusDTO) (*dto.OrderDTO, error) {
	status, err := constants.ToInternal(req.Status)
	if err != nil {
		return nil, err
	}

	values := map[string]any{"status": string(status)}
	if status.StampsAuditor() {
		values["auditor"] = req.Audit
		values["audited_at"] = time.Now()
	}

	orderNumber, err := s.repo.UpdateStatus(ctx, req.OrderUnique, values)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityOrder,
		EntityID:   orderNumber,
		Action:     constants.ActionStatusChange,
		Operator:   req.Audit,
		Comment:    statusComment(req.Status, req.Comment),
	})

	return s.FindByUnique(ctx, req.OrderUnique)
}

func statusComment(externalLabel, comment string) string {
	if comment == "" {
		return externalLabel
	}
	return externalLabel + ": " + comment
}

// Delete hard-deletes one order. The audit trail is keyed by the external
// id, so the history outlives the row and records the deletion itself.
func (s *OrderService) Delete(ctx context.Context, uniqueKey, operator string) (string, error) {
	orderNumber, err := s.repo.Delete(ctx, uniqueKey)
	if err != nil {
		return "", err
	}

	s.recorder.Record(entities.AuditEntry{
		EntityType: constants.EntityOrder,
		EntityID:   orderNumber,
		Action:     constants.ActionDelete,
		Operator:   operator,
	})
	return orderNumber, nil
}
