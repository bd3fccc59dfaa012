package dto

// UpdateOrderStatusDTO moves an order through the review lifecycle.
type UpdateOrderStatusDTO struct {
	OrderUnique string `json:"order_unique" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Audit       string `json:"audit"`
	Comment     string `json:"comment"`
}

// UpdateWorkOrderStatusDTO moves a work order through the review lifecycle.
type UpdateWorkOrderStatusDTO struct {
	WorkUnique string `json:"work_unique" validate:"required"`
	Status     string `json:"status" validate:"required"`
	WorkAudit  string `json:"work_audit"`
	Comment    string `json:"comment"`
}

// UpdateProcessDTO advances production progress on a work order. Progress is
// keyed by work_id, not work_unique: it survives version bumps.
type UpdateProcessDTO struct {
	WorkID        string `json:"work_id" validate:"required"`
	Process       int    `json:"process" validate:"gte=0,lte=100"`
	DangQianJinDu string `json:"dangQianJinDu"`
}
