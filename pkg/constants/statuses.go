package constants

import (
	"net/http"

	"ebench-backend/pkg/apperrors"
)

// Status is the internal status domain (matches the codes stored in the DB).
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
	StatusInProduction  Status = "IN_PRODUCTION"
	StatusCompleted     Status = "COMPLETED"
	StatusCancelled     Status = "CANCELLED"
)

func (s Status) String() string { return string(s) }

// The external (client-facing) vocabulary is preserved verbatim from the
// customer contract; the two maps below must stay bijective.
var statusToExternal = map[Status]string{
	StatusDraft:         "草稿",
	StatusPendingReview: "待审核",
	StatusApproved:      "通过",
	StatusRejected:      "驳回",
	StatusInProduction:  "生产中",
	StatusCompleted:     "完成",
	StatusCancelled:     "取消",
}

var externalToStatus = func() map[string]Status {
	m := make(map[string]Status, len(statusToExternal))
	for s, label := range statusToExternal {
		m[label] = s
	}
	return m
}()

// ToExternal translates an internal status into the external label.
// Total over the seven-state enumeration.
func ToExternal(s Status) string {
	if label, ok := statusToExternal[s]; ok {
		return label
	}
	// An unknown code in the DB is a data bug; surface it verbatim rather
	// than inventing a label.
	return string(s)
}

// ToInternal translates an external label into the internal status.
// Unrecognized labels fail closed, never default to a guessed state.
func ToInternal(label string) (Status, error) {
	if s, ok := externalToStatus[label]; ok {
		return s, nil
	}
	return "", apperrors.NewHttpError(http.StatusUnprocessableEntity,
		"unrecognized status label", nil, map[string]string{"status": label})
}

// StampsAuditor reports whether moving into this status stamps the auditor
// and audit timestamp. Only approval decisions do.
func (s Status) StampsAuditor() bool {
	return s == StatusApproved || s == StatusRejected
}

// SaveMode distinguishes the lax draft validation from the strict submit one.
type SaveMode string

const (
	ModeDraft  SaveMode = "draft"
	ModeSubmit SaveMode = "submit"
)

// DefaultStatus is the status a new document gets when the payload does not
// carry one explicitly.
func (m SaveMode) DefaultStatus() Status {
	if m == ModeDraft {
		return StatusDraft
	}
	return StatusPendingReview
}

// Audit trail action labels.
const (
	ActionSubmit         = "SUBMIT"
	ActionSaveDraft      = "SAVE_DRAFT"
	ActionUpdateSubmit   = "UPDATE_SUBMIT"
	ActionUpdateDraft    = "UPDATE_DRAFT"
	ActionStatusChange   = "STATUS_CHANGE"
	ActionProgressUpdate = "PROGRESS_UPDATE"
	ActionDelete         = "DELETE"
)

// Entity types used as the audit trail partition key.
const (
	EntityOrder     = "Order"
	EntityWorkOrder = "WorkOrder"
)

// AllStatuses lists the enumeration in lifecycle order; handy for reports.
var AllStatuses = []Status{
	StatusDraft, StatusPendingReview, StatusApproved, StatusRejected,
	StatusInProduction, StatusCompleted, StatusCancelled,
}
