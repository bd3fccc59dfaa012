package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order is the customer-facing document header. Business columns are
// nullable; the lifecycle manager treats them as opaque.
type Order struct {
	ID          int64
	OrderNumber string
	OrderVer    string
	OrderUnique string
	Status      string

	Customer null.String
	Sales    null.String
	Auditor  null.String

	ProductName     null.String
	CustomerPO      null.String
	ISBN            null.String
	QuoteNo         null.String
	SeriesName      null.String
	ProductCategory null.String
	FSCType         null.String
	BindingMethod   null.String
	UsageNote       null.String
	MaterialNote    null.String
	QualityNote     null.String
	SpecialNote     null.String
	CustomNote      null.String

	CPCConfirmed  null.Bool
	ExportFlag    null.Bool
	CPSIARequired null.Bool

	OrderQty   null.Int64
	SampleQty  null.Int64
	OverrunQty null.Int64
	SpareQty   null.Int64
	TotalQty   null.Int64
	ShipQty    null.Int64

	HeightMm    null.Float64
	WidthMm     null.Float64
	ThicknessMm null.Float64

	SampleDateRequired null.Time
	SampleDatePromise  null.Time
	ShipDateRequired   null.Time
	ShipDatePromise    null.Time

	AuditedAt   null.Time
	SubmittedAt null.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items     []OrderItem
	Documents []AttachmentRef
}

// OrderItem is one product spec line, owned exclusively by its Order and
// fully replaced as a set on every update.
type OrderItem struct {
	ID      int64
	OrderID int64
	LineNo  int

	Content        null.String
	PaperSize      null.String
	Brand          null.String
	Thickness      null.String
	Grammage       null.Float64
	Origin         null.String
	PaperType      null.String
	FSC            null.String
	Pages          null.Int64
	Colors         null.String
	SpotColor      null.String
	SurfaceFinish  null.String
	BindingProcess null.String
	Remark         null.String
}
