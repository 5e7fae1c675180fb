package storefront

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenMaker_RoundTrip(t *testing.T) {
	tm := NewTokenMaker(secret, time.Hour)

	tok, exp, err := tm.New("s_abc")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "s_abc", c.SessionID)
	assert.Equal(t, tokenIssuer, c.Issuer)
}

func TestTokenMaker_Rejects(t *testing.T) {
	tm := NewTokenMaker(secret, time.Hour)

	expired := NewTokenMaker(secret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	oldTok, _, err := expired.New("s_old")
	require.NoError(t, err)

	otherTok, _, err := NewTokenMaker("ffffffffffffffffffffffffffffffff", time.Hour).New("s_x")
	require.NoError(t, err)

	noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "s_x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID:        "s_x",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	testCases := []struct {
		name string
		tok  string
	}{
		{name: "expired", tok: oldTok},
		{name: "other secret", tok: otherTok},
		{name: "alg none", tok: noneTok},
		{name: "wrong issuer", tok: wrongIssuer},
		{name: "no session id", tok: noSession},
		{name: "garbage", tok: "a.b.c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tm.Parse(tc.tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
