package schema

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
)

func TestNormalizeWhitelistsAndTranslates(t *testing.T) {
	payload := map[string]any{
		"customer":           "ACME Press",
		"dingDanShuLiang":    float64(5000),
		"guigeGaoMm":         float64(210.5),
		"cpcQueRen":          true,
		"chuHuoRiqiRequired": "2026-09-15",
		"notInWhitelist":     "dropped",
		"created_at":         "2020-01-01",
	}

	doc, err := Normalize(OrderSchema, payload, constants.ModeSubmit)
	require.NoError(t, err)

	assert.Equal(t, "ACME Press", doc.Header["customer"])
	assert.Equal(t, int64(5000), doc.Header["order_qty"])
	assert.Equal(t, 210.5, doc.Header["height_mm"])
	assert.Equal(t, true, doc.Header["cpc_confirmed"])
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), doc.Header["ship_date_required"])

	// Unknown keys never reach the header, whatever they claim to be.
	_, ok := doc.Header["notInWhitelist"]
	assert.False(t, ok)
	_, ok = doc.Header["created_at"]
	assert.False(t, ok)
}

func TestNormalizeAbsentVersusNullKeys(t *testing.T) {
	payload := map[string]any{
		"customer": "ACME Press",
		"isbn":     nil,
	}

	doc, err := Normalize(OrderSchema, payload, constants.ModeDraft)
	require.NoError(t, err)

	// Null means "clear the column"; an absent key leaves it untouched.
	v, ok := doc.Header["isbn"]
	assert.True(t, ok)
	assert.Nil(t, v)
	_, ok = doc.Header["product_name"]
	assert.False(t, ok)
}

func TestNormalizeSubmitRequiresCustomer(t *testing.T) {
	payload := map[string]any{"productName": "Catalog 2026"}

	_, err := Normalize(OrderSchema, payload, constants.ModeSubmit)
	require.Error(t, err)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "customer")

	// The same payload passes as a draft.
	_, err = Normalize(OrderSchema, payload, constants.ModeDraft)
	assert.NoError(t, err)
}

func TestNormalizeCollectsEveryProblem(t *testing.T) {
	payload := map[string]any{
		"customer":           "ACME Press",
		"dingDanShuLiang":    "not-a-number",
		"cpcQueRen":          "yes",
		"chuHuoRiqiRequired": "15/09/2026",
		"chanPinMingXi": []any{
			map[string]any{"neiWen": "cover", "yeShu": "many"},
		},
	}

	_, err := Normalize(OrderSchema, payload, constants.ModeSubmit)
	require.Error(t, err)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "dingDanShuLiang")
	assert.Contains(t, ve.Fields, "cpcQueRen")
	assert.Contains(t, ve.Fields, "chuHuoRiqiRequired")
	assert.Contains(t, ve.Fields, "chanPinMingXi[0].yeShu")
	assert.Len(t, ve.Fields, 4)
}

func TestNormalizeFiltersEmptyLinesAndRenumbers(t *testing.T) {
	payload := map[string]any{
		"customer": "ACME Press",
		"chanPinMingXi": []any{
			map[string]any{"neiWen": "cover", "yeShu": float64(4)},
			map[string]any{"beiZhu": "remark only, no identity"},
			map[string]any{"neiWen": "", "yongZhiChiCun": "", "pinPai": ""},
			map[string]any{"pinPai": "UPM", "keZhong": float64(128)},
		},
	}

	doc, err := Normalize(OrderSchema, payload, constants.ModeSubmit)
	require.NoError(t, err)

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0]["line_no"])
	assert.Equal(t, "cover", doc.Lines[0]["content"])
	assert.Equal(t, 2, doc.Lines[1]["line_no"])
	assert.Equal(t, "UPM", doc.Lines[1]["brand"])
}

func TestNormalizeLinesAbsentVersusEmpty(t *testing.T) {
	withLines := map[string]any{
		"customer":      "ACME Press",
		"chanPinMingXi": []any{},
	}
	doc, err := Normalize(OrderSchema, withLines, constants.ModeSubmit)
	require.NoError(t, err)
	// An explicit empty array means "replace with nothing".
	assert.NotNil(t, doc.Lines)
	assert.Len(t, doc.Lines, 0)

	withoutLines := map[string]any{"customer": "ACME Press"}
	doc, err = Normalize(OrderSchema, withoutLines, constants.ModeSubmit)
	require.NoError(t, err)
	assert.Nil(t, doc.Lines)
}

func TestNormalizeLooseStringThickness(t *testing.T) {
	payload := map[string]any{
		"customer": "ACME Press",
		"chanPinMingXi": []any{
			map[string]any{"neiWen": "cover", "houDu": float64(0.3)},
			map[string]any{"neiWen": "text", "houDu": "0.25mm"},
		},
	}

	doc, err := Normalize(OrderSchema, payload, constants.ModeSubmit)
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "0.3", doc.Lines[0]["thickness"])
	assert.Equal(t, "0.25mm", doc.Lines[1]["thickness"])
}

func TestNormalizeReadsIdentityAndStatus(t *testing.T) {
	payload := map[string]any{
		"order_id":     "AUTO-20260828120000-123",
		"order_ver":    "V2",
		"order_unique": "client-supplied-garbage",
		"orderstatus":  "草稿",
		"customer":     "ACME Press",
	}

	doc, err := Normalize(OrderSchema, payload, constants.ModeDraft)
	require.NoError(t, err)
	assert.Equal(t, "AUTO-20260828120000-123", doc.ExternalID)
	assert.Equal(t, "V2", doc.Version)
	assert.Equal(t, "草稿", doc.Status)
}

func TestNormalizeWorkOrderProgressNotWhitelisted(t *testing.T) {
	payload := map[string]any{
		"customer":      "ACME Press",
		"work_clerk":    "li",
		"process":       float64(80),
		"dangQianJinDu": "printing",
	}

	doc, err := Normalize(WorkOrderSchema, payload, constants.ModeSubmit)
	require.NoError(t, err)

	// Progress moves only through the dedicated operation.
	_, ok := doc.Header["process"]
	assert.False(t, ok)
	_, ok = doc.Header["progress_note"]
	assert.False(t, ok)
	assert.Equal(t, "li", doc.Header["clerk"])
}

func TestCoerceNumericStrings(t *testing.T) {
	v, err := coerce(KindInt, " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = coerce(KindFloat, "3.5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = coerce(KindInt, 4.5)
	assert.Error(t, err)

	v, err = coerce(KindInt, "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCoerceIntRejectsOutOfRangeFloats(t *testing.T) {
	for _, raw := range []float64{1e300, -1e300, math.MaxInt64, math.Inf(1)} {
		_, err := coerce(KindInt, raw)
		assert.Error(t, err, "value %v must not convert", raw)
	}

	// The largest float64 that still fits converts cleanly.
	v, err := coerce(KindInt, float64(1<<62))
	require.NoError(t, err)
	assert.Equal(t, int64(1<<62), v)
}
