package dto

import (
	"strconv"

	"ebench-backend/internal/entities"
	"ebench-backend/pkg/constants"
)

// ProductDTO is one chanPinMingXi row in the external response contract.
type ProductDTO struct {
	NeiWen           *string  `json:"neiWen,omitempty"`
	YongZhiChiCun    *string  `json:"yongZhiChiCun,omitempty"`
	HouDu            *float64 `json:"houDu,omitempty"`
	KeZhong          *float64 `json:"keZhong,omitempty"`
	ChanDi           *string  `json:"chanDi,omitempty"`
	PinPai           *string  `json:"pinPai,omitempty"`
	ZhiLei           *string  `json:"zhiLei,omitempty"`
	FSC              *string  `json:"FSC,omitempty"`
	YeShu            *int64   `json:"yeShu,omitempty"`
	YinSe            *string  `json:"yinSe,omitempty"`
	ZhuanSe          *string  `json:"zhuanSe,omitempty"`
	BiaoMianChuLi    *string  `json:"biaoMianChuLi,omitempty"`
	ZhuangDingGongYi *string  `json:"zhuangDingGongYi,omitempty"`
	BeiZhu           *string  `json:"beiZhu,omitempty"`
}

// OrderDTO is the external response shape for an Order. Field names are the
// customer contract, preserved verbatim.
type OrderDTO struct {
	OrderID     string  `json:"order_id"`
	OrderVer    string  `json:"order_ver"`
	OrderUnique string  `json:"order_unique"`
	Customer    string  `json:"customer"`
	Sales       string  `json:"sales"`
	Audit       *string `json:"audit,omitempty"`
	ShenHeRiqi  *string `json:"shenHeRiqi,omitempty"`

	CpcQueRen     *bool   `json:"cpcQueRen,omitempty"`
	WaixiaoFlag   *bool   `json:"waixiaoFlag,omitempty"`
	CpsiaYaoqiu   *bool   `json:"cpsiaYaoqiu,omitempty"`
	DingZhiBeiZhu *string `json:"dingZhiBeiZhu,omitempty"`

	ProductName  *string `json:"productName,omitempty"`
	ISBN         *string `json:"isbn,omitempty"`
	CustomerPO   *string `json:"customerPO,omitempty"`
	BaoJiaDanHao *string `json:"baoJiaDanHao,omitempty"`
	XiLieDanMing *string `json:"xiLieDanMing,omitempty"`
	ChanPinDaLei *string `json:"chanPinDaLei,omitempty"`
	FscType      *string `json:"fscType,omitempty"`

	DingDanShuLiang  *int64 `json:"dingDanShuLiang,omitempty"`
	ChuYangShuLiang  *int64 `json:"chuYangShuLiang,omitempty"`
	ChaoBiLiShuLiang *int64 `json:"chaoBiLiShuLiang,omitempty"`
	BeiPinShuLiang   *int64 `json:"beiPinShuLiang,omitempty"`
	ZongShuLiang     *int64 `json:"zongShuLiang,omitempty"`
	ChuHuoShuLiang   *int64 `json:"chuHuoShuLiang,omitempty"`

	ZhuangDingFangShi *string  `json:"zhuangDingFangShi,omitempty"`
	GuigeGaoMm        *float64 `json:"guigeGaoMm,omitempty"`
	GuigeKuanMm       *float64 `json:"guigeKuanMm,omitempty"`
	GuigeHouMm        *float64 `json:"guigeHouMm,omitempty"`

	ChuyangRiqiRequired *string `json:"chuyangRiqiRequired,omitempty"`
	ChuyangRiqiPromise  *string `json:"chuyangRiqiPromise,omitempty"`
	ChuHuoRiqiRequired  *string `json:"chuHuoRiqiRequired,omitempty"`
	ChuHuoRiqiPromise   *string `json:"chuHuoRiqiPromise,omitempty"`

	YongTu               *string `json:"yongTu,omitempty"`
	WuLiaoShuoMing       *string `json:"wuLiaoShuoMing,omitempty"`
	ZhiLiangYaoQiu       *string `json:"zhiLiangYaoQiu,omitempty"`
	DingDanTeBieShuoMing *string `json:"dingDanTeBieShuoMing,omitempty"`

	ChanPinMingXi []ProductDTO `json:"chanPinMingXi"`

	OrderStatus string `json:"orderstatus"`

	SubmittedAt *string `json:"submittedAt,omitempty"`

	AuditLogs   []AuditLogDTO   `json:"auditLogs"`
	Attachments []AttachmentDTO `json:"attachments"`
}

func orderItemToProductDTO(it entities.OrderItem) ProductDTO {
	p := ProductDTO{
		NeiWen:           strPtr(it.Content),
		YongZhiChiCun:    strPtr(it.PaperSize),
		KeZhong:          floatPtr(it.Grammage),
		ChanDi:           strPtr(it.Origin),
		PinPai:           strPtr(it.Brand),
		ZhiLei:           strPtr(it.PaperType),
		FSC:              strPtr(it.FSC),
		YeShu:            intPtr(it.Pages),
		YinSe:            strPtr(it.Colors),
		ZhuanSe:          strPtr(it.SpotColor),
		BiaoMianChuLi:    strPtr(it.SurfaceFinish),
		ZhuangDingGongYi: strPtr(it.BindingProcess),
		BeiZhu:           strPtr(it.Remark),
	}
	// Thickness is stored as text because the client sends it both ways;
	// the response contract wants a number.
	if it.Thickness.Valid {
		if f, err := strconv.ParseFloat(it.Thickness.String, 64); err == nil {
			p.HouDu = &f
		}
	}
	return p
}

// OrderToDTO projects an Order and its audit history into the external
// contract. Never returns a raw store record.
func OrderToDTO(o *entities.Order, auditLogs []entities.AuditEntry) *OrderDTO {
	if o == nil {
		return nil
	}

	out := &OrderDTO{
		OrderID:     o.OrderNumber,
		OrderVer:    o.OrderVer,
		OrderUnique: o.OrderUnique,
		Customer:    o.Customer.String,
		Sales:       o.Sales.String,
		Audit:       strPtr(o.Auditor),
		ShenHeRiqi:  fmtDate(o.AuditedAt),

		CpcQueRen:     boolPtr(o.CPCConfirmed),
		WaixiaoFlag:   boolPtr(o.ExportFlag),
		CpsiaYaoqiu:   boolPtr(o.CPSIARequired),
		DingZhiBeiZhu: strPtr(o.CustomNote),

		ProductName:  strPtr(o.ProductName),
		ISBN:         strPtr(o.ISBN),
		CustomerPO:   strPtr(o.CustomerPO),
		BaoJiaDanHao: strPtr(o.QuoteNo),
		XiLieDanMing: strPtr(o.SeriesName),
		ChanPinDaLei: strPtr(o.ProductCategory),
		FscType:      strPtr(o.FSCType),

		DingDanShuLiang:  intPtr(o.OrderQty),
		ChuYangShuLiang:  intPtr(o.SampleQty),
		ChaoBiLiShuLiang: intPtr(o.OverrunQty),
		BeiPinShuLiang:   intPtr(o.SpareQty),
		ZongShuLiang:     intPtr(o.TotalQty),
		ChuHuoShuLiang:   intPtr(o.ShipQty),

		ZhuangDingFangShi: strPtr(o.BindingMethod),
		GuigeGaoMm:        floatPtr(o.HeightMm),
		GuigeKuanMm:       floatPtr(o.WidthMm),
		GuigeHouMm:        floatPtr(o.ThicknessMm),

		ChuyangRiqiRequired: fmtDate(o.SampleDateRequired),
		ChuyangRiqiPromise:  fmtDate(o.SampleDatePromise),
		ChuHuoRiqiRequired:  fmtDate(o.ShipDateRequired),
		ChuHuoRiqiPromise:   fmtDate(o.ShipDatePromise),

		YongTu:               strPtr(o.UsageNote),
		WuLiaoShuoMing:       strPtr(o.MaterialNote),
		ZhiLiangYaoQiu:       strPtr(o.QualityNote),
		DingDanTeBieShuoMing: strPtr(o.SpecialNote),

		OrderStatus: constants.ToExternal(constants.Status(o.Status)),
		SubmittedAt: fmtNullFullTime(o.SubmittedAt),

		ChanPinMingXi: make([]ProductDTO, 0, len(o.Items)),
		AuditLogs:     auditLogsToDTO(auditLogs),
		Attachments:   attachmentsToDTO(o.Documents),
	}

	for _, it := range o.Items {
		out.ChanPinMingXi = append(out.ChanPinMingXi, orderItemToProductDTO(it))
	}
	return out
}

// OrdersToDTO projects a listing; audit history is not loaded for lists.
func OrdersToDTO(orders []entities.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *OrderToDTO(&orders[i], nil))
	}
	return out
}
