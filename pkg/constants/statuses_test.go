package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebench-backend/pkg/apperrors"
)

func TestStatusTranslationRoundTrip(t *testing.T) {
	for _, s := range AllStatuses {
		label := ToExternal(s)
		require.NotEqual(t, string(s), label, "status %s must have an external label", s)

		back, err := ToInternal(label)
		require.NoError(t, err)
		assert.Equal(t, s, back)
	}
}

func TestToInternalFailsClosed(t *testing.T) {
	for _, label := range []string{"", "DRAFT", "approved", "未知状态"} {
		_, err := ToInternal(label)
		require.Error(t, err, "label %q must be rejected", label)

		var he *apperrors.HttpError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 422, he.Code)
	}
}

func TestToExternalUnknownCodePassesThrough(t *testing.T) {
	assert.Equal(t, "BOGUS", ToExternal(Status("BOGUS")))
}

func TestStampsAuditor(t *testing.T) {
	assert.True(t, StatusApproved.StampsAuditor())
	assert.True(t, StatusRejected.StampsAuditor())
	assert.False(t, StatusDraft.StampsAuditor())
	assert.False(t, StatusPendingReview.StampsAuditor())
	assert.False(t, StatusInProduction.StampsAuditor())
}

func TestSaveModeDefaultStatus(t *testing.T) {
	assert.Equal(t, StatusDraft, ModeDraft.DefaultStatus())
	assert.Equal(t, StatusPendingReview, ModeSubmit.DefaultStatus())
}
