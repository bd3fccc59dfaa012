package dto

import (
	"ebench-backend/internal/entities"
	"ebench-backend/pkg/constants"
)

// IntermediaDTO is one intermedia (material) row in the external contract.
type IntermediaDTO struct {
	BuJianMingCheng *string  `json:"buJianMingCheng,omitempty"`
	WuLiaoMingCheng *string  `json:"wuLiaoMingCheng,omitempty"`
	YinShuaYanSe    *string  `json:"yinShuaYanSe,omitempty"`
	PinPai          *string  `json:"pinPai,omitempty"`
	CaiLiaoGuiGe    *string  `json:"caiLiaoGuiGe,omitempty"`
	FSC             *string  `json:"FSC,omitempty"`
	KaiShu          *int64   `json:"kaiShu,omitempty"`
	ShangJiChiCun   *string  `json:"shangJiChiCun,omitempty"`
	PaiBanMuShu     *int64   `json:"paiBanMuShu,omitempty"`
	YinChuShu       *float64 `json:"yinChuShu,omitempty"`
	YinSun          *int64   `json:"yinSun,omitempty"`
	LingLiaoShu     *float64 `json:"lingLiaoShu,omitempty"`
	BiaoMianChuLi   *string  `json:"biaoMianChuLi,omitempty"`
	YinShuaBanShu   *int64   `json:"yinShuaBanShu,omitempty"`
	ShengChanLuJing *string  `json:"shengChanLuJing,omitempty"`
	PaiBanFangShi   *string  `json:"paiBanFangShi,omitempty"`
}

// WorkOrderDTO is the external response shape for a WorkOrder.
type WorkOrderDTO struct {
	WorkID     string  `json:"work_id"`
	WorkVer    string  `json:"work_ver"`
	WorkUnique string  `json:"work_unique"`
	Customer   string  `json:"customer"`
	WorkClerk  string  `json:"work_clerk"`
	WorkAudit  *string `json:"work_audit,omitempty"`
	AuditDate  *string `json:"auditDate,omitempty"`

	GongDanLeiXing  *string `json:"gongDanLeiXing,omitempty"`
	CaiLiao         *string `json:"caiLiao,omitempty"`
	ChanPinLeiXing  *string `json:"chanPinLeiXing,omitempty"`
	CustomerPO      *string `json:"customerPO,omitempty"`
	ProductName     *string `json:"productName,omitempty"`
	ChanPinGuiGe    *string `json:"chanPinGuiGe,omitempty"`
	BenChangFangSun *string `json:"benChangFangSun,omitempty"`

	DingDanShuLiang  *int64 `json:"dingDanShuLiang,omitempty"`
	ChuYangShuLiang  *int64 `json:"chuYangShuLiang,omitempty"`
	ChaoBiLiShuLiang *int64 `json:"chaoBiLiShuLiang,omitempty"`

	ChuYangRiqiRequired *string `json:"chuYangRiqiRequired,omitempty"`
	ChuHuoRiqiRequired  *string `json:"chuHuoRiqiRequired,omitempty"`

	Intermedia []IntermediaDTO `json:"intermedia"`

	WorkOrderStatus string  `json:"workorderstatus"`
	Process         int     `json:"process"`
	DangQianJinDu   *string `json:"dangQianJinDu,omitempty"`

	SubmittedAt *string `json:"submittedAt,omitempty"`

	AuditLogs   []AuditLogDTO   `json:"auditLogs"`
	Attachments []AttachmentDTO `json:"attachments"`
}

func workOrderLineToDTO(l entities.WorkOrderLine) IntermediaDTO {
	return IntermediaDTO{
		BuJianMingCheng: strPtr(l.Component),
		WuLiaoMingCheng: strPtr(l.MaterialDesc),
		YinShuaYanSe:    strPtr(l.PrintColors),
		PinPai:          strPtr(l.Brand),
		CaiLiaoGuiGe:    strPtr(l.MaterialSpec),
		FSC:             strPtr(l.FSC),
		KaiShu:          intPtr(l.CutCount),
		ShangJiChiCun:   strPtr(l.MachineSize),
		PaiBanMuShu:     intPtr(l.LayoutCount),
		YinChuShu:       floatPtr(l.PrintOutCount),
		YinSun:          intPtr(l.PrintWaste),
		LingLiaoShu:     floatPtr(l.MaterialSheets),
		BiaoMianChuLi:   strPtr(l.SurfaceFinish),
		YinShuaBanShu:   intPtr(l.PrintPlateCount),
		ShengChanLuJing: strPtr(l.ProductionPath),
		PaiBanFangShi:   strPtr(l.LayoutMethod),
	}
}

// WorkOrderToDTO projects a WorkOrder and its audit history into the
// external contract.
func WorkOrderToDTO(w *entities.WorkOrder, auditLogs []entities.AuditEntry) *WorkOrderDTO {
	if w == nil {
		return nil
	}

	out := &WorkOrderDTO{
		WorkID:     w.WorkNumber,
		WorkVer:    w.WorkVer,
		WorkUnique: w.WorkUnique,
		Customer:   w.Customer.String,
		WorkClerk:  w.Clerk.String,
		WorkAudit:  strPtr(w.Auditor),
		AuditDate:  fmtDate(w.AuditedAt),

		GongDanLeiXing:  strPtr(w.WorkType),
		CaiLiao:         strPtr(w.Material),
		ChanPinLeiXing:  strPtr(w.ProductType),
		CustomerPO:      strPtr(w.CustomerPO),
		ProductName:     strPtr(w.ProductName),
		ChanPinGuiGe:    strPtr(w.ProductSpec),
		BenChangFangSun: strPtr(w.WasteAllowance),

		DingDanShuLiang:  intPtr(w.OrderQty),
		ChuYangShuLiang:  intPtr(w.SampleQty),
		ChaoBiLiShuLiang: intPtr(w.OverrunQty),

		ChuYangRiqiRequired: fmtDate(w.SampleDateRequired),
		ChuHuoRiqiRequired:  fmtDate(w.ShipDateRequired),

		WorkOrderStatus: constants.ToExternal(constants.Status(w.Status)),
		Process:         w.Process,
		DangQianJinDu:   strPtr(w.ProgressNote),

		SubmittedAt: fmtNullFullTime(w.SubmittedAt),

		Intermedia:  make([]IntermediaDTO, 0, len(w.Lines)),
		AuditLogs:   auditLogsToDTO(auditLogs),
		Attachments: attachmentsToDTO(w.Documents),
	}

	for _, l := range w.Lines {
		out.Intermedia = append(out.Intermedia, workOrderLineToDTO(l))
	}
	return out
}

// WorkOrdersToDTO projects a listing; audit history is not loaded for lists.
func WorkOrdersToDTO(workOrders []entities.WorkOrder) []WorkOrderDTO {
	out := make([]WorkOrderDTO, 0, len(workOrders))
	for i := range workOrders {
		out = append(out, *WorkOrderToDTO(&workOrders[i], nil))
	}
	return out
}
