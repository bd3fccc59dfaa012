package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// WorkOrder is the production document derived from an Order.
type WorkOrder struct {
	ID         int64
	WorkNumber string
	WorkVer    string
	WorkUnique string
	Status     string

	Customer null.String
	Clerk    null.String
	Auditor  null.String

	WorkType       null.String
	Material       null.String
	ProductType    null.String
	CustomerPO     null.String
	ProductName    null.String
	ProductSpec    null.String
	WasteAllowance null.String

	OrderQty   null.Int64
	SampleQty  null.Int64
	OverrunQty null.Int64

	SampleDateRequired null.Time
	ShipDateRequired   null.Time

	// Process is the production completion percentage, moved only through
	// the dedicated progress operation, never through upsert.
	Process      int
	ProgressNote null.String

	AuditedAt   null.Time
	SubmittedAt null.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lines     []WorkOrderLine
	Documents []AttachmentRef
}

// WorkOrderLine is one material line (intermedia row).
type WorkOrderLine struct {
	ID          int64
	WorkOrderID int64
	LineNo      int

	Component       null.String
	MaterialDesc    null.String
	PrintColors     null.String
	Brand           null.String
	MaterialSpec    null.String
	FSC             null.String
	CutCount        null.Int64
	MachineSize     null.String
	LayoutCount     null.Int64
	PrintOutCount   null.Float64
	PrintWaste      null.Int64
	MaterialSheets  null.Float64
	SurfaceFinish   null.String
	PrintPlateCount null.Int64
	ProductionPath  null.String
	LayoutMethod    null.String
}
