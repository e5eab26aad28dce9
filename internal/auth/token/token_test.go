package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Paul1o1/rendojobs-frontend/internal/clock"
	"github.com/Paul1o1/rendojobs-frontend/internal/user"
)

func testUser() *user.User {
	return &user.User{
		ID:         "8d5a9c2e-1f3b-4b7a-9c0d-2e4f6a8b0c1d",
		TelegramID: "123",
		Name:       "Ada Lovelace",
	}
}

func TestIssueAndVerify(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewIssuer("secret-a", clk)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "8d5a9c2e-1f3b-4b7a-9c0d-2e4f6a8b0c1d", claims.UserID)
	assert.Equal(t, "123", claims.TelegramID)
	assert.Equal(t, "Ada Lovelace", claims.Name)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	signed, err := NewIssuer("secret-a", clk).Issue(testUser())
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", clk).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewIssuer("secret-a", clk)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	clk.Advance(TTL + time.Minute)
	_, err = issuer.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAcceptsTokenJustBeforeExpiry(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewIssuer("secret-a", clk)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	clk.Advance(TTL - time.Minute)
	_, err = issuer.Verify(signed)
	assert.NoError(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	clk := clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	_, err := NewIssuer("secret-a", clk).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPeekExpiry(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMock(issued)

	signed, err := NewIssuer("secret-a", clk).Issue(testUser())
	require.NoError(t, err)

	exp, err := PeekExpiry(signed)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(TTL).Unix(), exp.Unix())
}

func TestPeekExpiryGarbage(t *testing.T) {
	_, err := PeekExpiry("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
