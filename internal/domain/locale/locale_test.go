package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

var plainKeys = []string{
	KeyOrderEnded, KeyCapacityReached, KeyDeadlinePassed,
	KeyUnknownUser, KeyDeletedItem, KeyDefaultUserName,
	KeyCSVParticipant, KeyCSVItem, KeyCSVQuantity, KeyCSVUnitPrice,
	KeyCSVOptions, KeyCSVSubtotal, KeyCSVPaymentStatus, KeyCSVPaid, KeyCSVUnpaid,
	KeyStatusCreated, KeyStatusOpened, KeyStatusClosed, KeyStatusArchived,
	KeyNoItems, KeyUnknownItem, KeyNameTooShort, KeyNoValidItems,
	KeyNegativePrice, KeyInvalidInput, KeyMessageRequired,
	KeyAlreadyJoined, KeyInvalidTransition, KeyTrackingDisabled, KeyForbidden,
	KeyNotFound, KeyNotEditable, KeySummaryNotClosed, KeyNotParticipant,
	KeyExtractMenuFailed, KeyExtractLinkFailed, KeyExtractUnavailable, KeySummaryFailed,
	KeyImageRequired, KeyImageTooLarge, KeyInvalidURL, KeyCSRFInvalid, KeyRateLimited,
	KeyServerError, KeySignInRequired,
}

func TestCatalog_AllKeysRegistered(t *testing.T) {
	for _, tag := range Supported() {
		for _, key := range plainKeys {
			assert.NotEqual(t, key, T(tag, key), "missing %s for %s", key, tag)
		}
	}
}

func TestT_FormatsArguments(t *testing.T) {
	assert.Equal(t, "庫存不足：「珍奶」最多只能訂購 3 份", T(TraditionalChineseTW, KeyExceedsMax, "珍奶", 3))
	assert.Equal(t, `Not enough stock: "Boba" is limited to 3 per order.`, T(English, KeyExceedsMax, "Boba", 3))
}

func TestMatch(t *testing.T) {
	tests := []struct {
		in   language.Tag
		want language.Tag
	}{
		{language.MustParse("zh-TW"), TraditionalChineseTW},
		{language.MustParse("zh-Hant"), TraditionalChineseTW},
		{language.MustParse("en-US"), English},
		{language.MustParse("en-GB"), English},
		{language.Und, Default},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.in), "Match(%s)", tt.in)
	}
}

func TestParse(t *testing.T) {
	tag, ok := Parse("en-US")
	assert.True(t, ok)
	assert.Equal(t, English, tag)

	tag, ok = Parse("not a tag!!")
	assert.False(t, ok)
	assert.Equal(t, Default, tag)

	tag, ok = Parse("")
	assert.False(t, ok)
	assert.Equal(t, Default, tag)
}
