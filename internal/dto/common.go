package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"ebench-backend/internal/entities"
)

type AuditLogDTO struct {
	Time     string  `json:"time"`
	Operator string  `json:"operator"`
	Action   string  `json:"action"`
	Comment  *string `json:"comment,omitempty"`
}

type AttachmentDTO struct {
	Category string  `json:"category"`
	FileName string  `json:"fileName"`
	URL      *string `json:"url,omitempty"`
}

func auditLogToDTO(e entities.AuditEntry) AuditLogDTO {
	out := AuditLogDTO{
		Time:     e.Time.Format("2006-01-02 15:04:05"),
		Operator: e.Operator,
		Action:   e.Action,
	}
	if e.Operator == "" {
		out.Operator = "SYSTEM"
	}
	if e.Comment != "" {
		out.Comment = &e.Comment
	}
	return out
}

func auditLogsToDTO(entries []entities.AuditEntry) []AuditLogDTO {
	out := make([]AuditLogDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditLogToDTO(e))
	}
	return out
}

func attachmentToDTO(a entities.AttachmentRef) AttachmentDTO {
	out := AttachmentDTO{Category: a.Category, FileName: a.FileName}
	if a.FileURL != "" {
		url := a.FileURL
		out.URL = &url
	}
	return out
}

func attachmentsToDTO(refs []entities.AttachmentRef) []AttachmentDTO {
	out := make([]AttachmentDTO, 0, len(refs))
	for _, a := range refs {
		out = append(out, attachmentToDTO(a))
	}
	return out
}

// Date formatting helpers matching the external contract: dates render as
// yyyy-mm-dd, timestamps as yyyy-mm-dd HH:mm:ss, absent values are omitted.

func fmtDate(t null.Time) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format("2006-01-02")
	return &s
}

func fmtFullTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format("2006-01-02 15:04:05")
	return &s
}

func fmtNullFullTime(t null.Time) *string {
	if !t.Valid {
		return nil
	}
	return fmtFullTime(t.Time)
}

func strPtr(s null.String) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

func intPtr(i null.Int64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func floatPtr(f null.Float64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func boolPtr(b null.Bool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}
