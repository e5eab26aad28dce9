package telegram

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
)

const testBotToken = "8197448307:TESTTOKENTESTTOKENTESTTOKENTESTTOKEN"

func testClock() *clock.MockClock {
	// Shortly after the auth_date used in the fixtures.
	return clock.NewMock(time.Unix(1700000000, 0).Add(time.Minute))
}

func newTestValidator() *Validator {
	return NewValidator(testBotToken, 24*time.Hour, testClock())
}

// signedInitData builds a correctly signed payload for the given fields.
func signedInitData(t *testing.T, fields url.Values, botToken string) string {
	t.Helper()
	hash := Sign(fields, botToken)
	fields.Set("hash", hash)
	return fields.Encode()
}

func baseFields() url.Values {
	return url.Values{
		"auth_date": {"1700000000"},
		"query_id":  {"abc"},
		"user":      {`{"id":123,"first_name":"Ada"}`},
	}
}

func TestValidateAcceptsSignedPayload(t *testing.T) {
	initData := signedInitData(t, baseFields(), testBotToken)

	user, err := newTestValidator().Validate(initData)
	require.NoError(t, err)
	assert.Equal(t, int64(123), user.ID)
	assert.Equal(t, "Ada", user.FirstName)
}

func TestValidateIsDeterministic(t *testing.T) {
	initData := signedInitData(t, baseFields(), testBotToken)
	v := newTestValidator()

	first, err := v.Validate(initData)
	require.NoError(t, err)
	second, err := v.Validate(initData)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateRejectsTamperedField(t *testing.T) {
	fields := baseFields()
	initData := signedInitData(t, fields, testBotToken)

	// Alter a signed field after signing.
	parsed, err := url.ParseQuery(initData)
	require.NoError(t, err)
	parsed.Set("user", `{"id":666,"first_name":"Eve"}`)

	_, err = newTestValidator().Validate(parsed.Encode())
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	initData := signedInitData(t, baseFields(), "some-other-token")

	_, err := newTestValidator().Validate(initData)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestValidateRejectsFlippedHashCharacter(t *testing.T) {
	fields := baseFields()
	hash := Sign(fields, testBotToken)

	// Flip one hex character at a time.
	for i := range hash {
		flipped := []byte(hash)
		if flipped[i] == 'a' {
			flipped[i] = 'b'
		} else {
			flipped[i] = 'a'
		}
		fields.Set("hash", string(flipped))

		_, err := newTestValidator().Validate(fields.Encode())
		assert.ErrorIs(t, err, ErrSignatureMismatch, "position %d", i)
	}
}

func TestValidateRejectsTruncatedHash(t *testing.T) {
	fields := baseFields()
	hash := Sign(fields, testBotToken)
	fields.Set("hash", hash[:len(hash)-2])

	_, err := newTestValidator().Validate(fields.Encode())
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestValidateMissingHash(t *testing.T) {
	_, err := newTestValidator().Validate(baseFields().Encode())
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestValidateMissingUser(t *testing.T) {
	fields := baseFields()
	fields.Del("user")
	initData := signedInitData(t, fields, testBotToken)

	_, err := newTestValidator().Validate(initData)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestValidateMalformedUser(t *testing.T) {
	fields := baseFields()
	fields.Set("user", "{not json")
	initData := signedInitData(t, fields, testBotToken)

	_, err := newTestValidator().Validate(initData)
	assert.ErrorIs(t, err, ErrMalformedUser)
}

func TestValidateMalformedQueryString(t *testing.T) {
	_, err := newTestValidator().Validate("%zz=bad")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestValidateEmptyInput(t *testing.T) {
	_, err := newTestValidator().Validate("")
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestValidateFieldOrderIrrelevant(t *testing.T) {
	fields := baseFields()
	hash := Sign(fields, testBotToken)

	// Hand-build the wire form with keys in reverse order.
	initData := "user=" + url.QueryEscape(`{"id":123,"first_name":"Ada"}`) +
		"&query_id=abc&hash=" + hash + "&auth_date=1700000000"

	user, err := newTestValidator().Validate(initData)
	require.NoError(t, err)
	assert.Equal(t, int64(123), user.ID)
}

func TestValidateStalePayload(t *testing.T) {
	initData := signedInitData(t, baseFields(), testBotToken)

	clk := testClock()
	clk.Advance(25 * time.Hour)
	v := NewValidator(testBotToken, 24*time.Hour, clk)

	_, err := v.Validate(initData)
	assert.ErrorIs(t, err, ErrStalePayload)
}

func TestValidateFreshnessDisabled(t *testing.T) {
	initData := signedInitData(t, baseFields(), testBotToken)

	clk := testClock()
	clk.Advance(365 * 24 * time.Hour)
	v := NewValidator(testBotToken, 0, clk)

	_, err := v.Validate(initData)
	assert.NoError(t, err)
}

func TestValidateStaleBeatsMissingUser(t *testing.T) {
	// A stale payload is rejected before the user field is inspected.
	fields := baseFields()
	fields.Del("user")
	initData := signedInitData(t, fields, testBotToken)

	clk := testClock()
	clk.Advance(25 * time.Hour)
	v := NewValidator(testBotToken, 24*time.Hour, clk)

	_, err := v.Validate(initData)
	assert.ErrorIs(t, err, ErrStalePayload)
}

func TestValidateDecodesOptionalFields(t *testing.T) {
	fields := baseFields()
	fields.Set("user", `{"id":123,"first_name":"Ada","last_name":"Lovelace","username":"ada","language_code":"en","is_premium":true}`)
	initData := signedInitData(t, fields, testBotToken)

	user, err := newTestValidator().Validate(initData)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", user.LastName)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "en", user.LanguageCode)
	assert.True(t, user.IsPremium)
}
