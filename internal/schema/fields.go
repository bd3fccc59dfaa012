package schema

// Kind declares how a whitelisted field is coerced before persistence.
type Kind int

const (
	KindString Kind = iota
	// KindLooseString accepts a string or a number and stores text; the
	// customer contract sends thickness both ways.
	KindLooseString
	KindInt
	KindFloat
	KindBool
	KindDate
)

// Field binds an external (client-facing) name to an internal column.
// This is the field-name translation table: plain configuration, not logic.
type Field struct {
	External string
	Column   string
	Kind     Kind
	// Identifying marks line-item fields that decide whether a sparse UI
	// row is a real line or an empty one to be filtered out.
	Identifying bool
}

// DocSchema is the full whitelist for one document class. Anything not
// listed here (or in the reserved identity keys) is silently dropped, which
// keeps storage-only fields out of reach of the client.
type DocSchema struct {
	Name string

	// Reserved identity/status keys, handled by the orchestrator rather
	// than the header whitelist.
	IDKey     string
	VerKey    string
	UniqueKey string
	StatusKey string
	// Prefix for generated external identifiers.
	Prefix string

	Fields     []Field
	LineField  string
	LineFields []Field
	// Required lists external names that must be present and non-empty in
	// submit mode. Enforced identically for create and update.
	Required []string
}

// OrderSchema covers the customer Order header and its product spec lines
// (chanPinMingXi in the external contract).
var OrderSchema = &DocSchema{
	Name:      "order",
	IDKey:     "order_id",
	VerKey:    "order_ver",
	UniqueKey: "order_unique",
	StatusKey: "orderstatus",
	Prefix:    "AUTO",

	Fields: []Field{
		{External: "customer", Column: "customer", Kind: KindString},
		{External: "sales", Column: "sales", Kind: KindString},
		{External: "audit", Column: "auditor", Kind: KindString},
		{External: "productName", Column: "product_name", Kind: KindString},
		{External: "customerPO", Column: "customer_po", Kind: KindString},
		{External: "isbn", Column: "isbn", Kind: KindString},
		{External: "baoJiaDanHao", Column: "quote_no", Kind: KindString},
		{External: "xiLieDanMing", Column: "series_name", Kind: KindString},
		{External: "chanPinDaLei", Column: "product_category", Kind: KindString},
		{External: "fscType", Column: "fsc_type", Kind: KindString},
		{External: "zhuangDingFangShi", Column: "binding_method", Kind: KindString},
		{External: "yongTu", Column: "usage_note", Kind: KindString},
		{External: "wuLiaoShuoMing", Column: "material_note", Kind: KindString},
		{External: "zhiLiangYaoQiu", Column: "quality_note", Kind: KindString},
		{External: "dingDanTeBieShuoMing", Column: "special_note", Kind: KindString},
		{External: "dingZhiBeiZhu", Column: "custom_note", Kind: KindString},

		{External: "cpcQueRen", Column: "cpc_confirmed", Kind: KindBool},
		{External: "waixiaoFlag", Column: "export_flag", Kind: KindBool},
		{External: "cpsiaYaoqiu", Column: "cpsia_required", Kind: KindBool},

		{External: "dingDanShuLiang", Column: "order_qty", Kind: KindInt},
		{External: "chuYangShuLiang", Column: "sample_qty", Kind: KindInt},
		{External: "chaoBiLiShuLiang", Column: "overrun_qty", Kind: KindInt},
		{External: "beiPinShuLiang", Column: "spare_qty", Kind: KindInt},
		{External: "zongShuLiang", Column: "total_qty", Kind: KindInt},
		{External: "chuHuoShuLiang", Column: "ship_qty", Kind: KindInt},

		{External: "guigeGaoMm", Column: "height_mm", Kind: KindFloat},
		{External: "guigeKuanMm", Column: "width_mm", Kind: KindFloat},
		{External: "guigeHouMm", Column: "thickness_mm", Kind: KindFloat},

		{External: "chuyangRiqiRequired", Column: "sample_date_required", Kind: KindDate},
		{External: "chuyangRiqiPromise", Column: "sample_date_promise", Kind: KindDate},
		{External: "chuHuoRiqiRequired", Column: "ship_date_required", Kind: KindDate},
		{External: "chuHuoRiqiPromise", Column: "ship_date_promise", Kind: KindDate},
	},

	LineField: "chanPinMingXi",
	LineFields: []Field{
		{External: "neiWen", Column: "content", Kind: KindString, Identifying: true},
		{External: "yongZhiChiCun", Column: "paper_size", Kind: KindString, Identifying: true},
		{External: "pinPai", Column: "brand", Kind: KindString, Identifying: true},
		{External: "houDu", Column: "thickness", Kind: KindLooseString},
		{External: "keZhong", Column: "grammage", Kind: KindFloat},
		{External: "chanDi", Column: "origin", Kind: KindString},
		{External: "zhiLei", Column: "paper_type", Kind: KindString},
		{External: "FSC", Column: "fsc", Kind: KindString},
		{External: "yeShu", Column: "pages", Kind: KindInt},
		{External: "yinSe", Column: "colors", Kind: KindString},
		{External: "zhuanSe", Column: "spot_color", Kind: KindString},
		{External: "biaoMianChuLi", Column: "surface_finish", Kind: KindString},
		{External: "zhuangDingGongYi", Column: "binding_process", Kind: KindString},
		{External: "beiZhu", Column: "remark", Kind: KindString},
	},

	Required: []string{"customer"},
}

// WorkOrderSchema covers the derived WorkOrder header and its material lines
// (intermedia in the external contract). The progress fields are deliberately
// absent: they move only through the dedicated progress operation.
var WorkOrderSchema = &DocSchema{
	Name:      "work order",
	IDKey:     "work_id",
	VerKey:    "work_ver",
	UniqueKey: "work_unique",
	StatusKey: "workorderstatus",
	Prefix:    "WK",

	Fields: []Field{
		{External: "customer", Column: "customer", Kind: KindString},
		{External: "work_clerk", Column: "clerk", Kind: KindString},
		{External: "work_audit", Column: "auditor", Kind: KindString},
		{External: "gongDanLeiXing", Column: "work_type", Kind: KindString},
		{External: "caiLiao", Column: "material", Kind: KindString},
		{External: "chanPinLeiXing", Column: "product_type", Kind: KindString},
		{External: "customerPO", Column: "customer_po", Kind: KindString},
		{External: "productName", Column: "product_name", Kind: KindString},
		{External: "chanPinGuiGe", Column: "product_spec", Kind: KindString},
		{External: "benChangFangSun", Column: "waste_allowance", Kind: KindLooseString},

		{External: "dingDanShuLiang", Column: "order_qty", Kind: KindInt},
		{External: "chuYangShuLiang", Column: "sample_qty", Kind: KindInt},
		{External: "chaoBiLiShuLiang", Column: "overrun_qty", Kind: KindInt},

		{External: "chuYangRiqiRequired", Column: "sample_date_required", Kind: KindDate},
		{External: "chuHuoRiqiRequired", Column: "ship_date_required", Kind: KindDate},
	},

	LineField: "intermedia",
	LineFields: []Field{
		{External: "buJianMingCheng", Column: "component", Kind: KindString, Identifying: true},
		{External: "wuLiaoMingCheng", Column: "material_desc", Kind: KindString, Identifying: true},
		{External: "yinShuaYanSe", Column: "print_colors", Kind: KindString},
		{External: "pinPai", Column: "brand", Kind: KindString},
		{External: "caiLiaoGuiGe", Column: "material_spec", Kind: KindString},
		{External: "FSC", Column: "fsc", Kind: KindString},
		{External: "kaiShu", Column: "cut_count", Kind: KindInt},
		{External: "shangJiChiCun", Column: "machine_size", Kind: KindString},
		{External: "paiBanMuShu", Column: "layout_count", Kind: KindInt},
		{External: "yinChuShu", Column: "print_out_count", Kind: KindFloat},
		{External: "yinSun", Column: "print_waste", Kind: KindInt},
		{External: "lingLiaoShu", Column: "material_sheets", Kind: KindFloat},
		{External: "biaoMianChuLi", Column: "surface_finish", Kind: KindString},
		{External: "yinShuaBanShu", Column: "print_plate_count", Kind: KindInt},
		{External: "shengChanLuJing", Column: "production_path", Kind: KindString},
		{External: "paiBanFangShi", Column: "layout_method", Kind: KindString},
	},

	Required: []string{"customer"},
}
