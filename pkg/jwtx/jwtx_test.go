package jwtx_test

import (
	"testing"
	"time"

	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMintAndVerify(t *testing.T) {
	signer := jwtx.NewSigner("secret", "timesheet-test", time.Hour)

	token, err := signer.Mint("user-1", "alice@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID())
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "timesheet-test", claims.Issuer)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	signer := jwtx.NewSigner("secret", "timesheet-test", time.Hour)
	other := jwtx.NewSigner("different-secret", "timesheet-test", time.Hour)

	token, err := other.Mint("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	signer := jwtx.NewSigner("secret", "timesheet-test", time.Hour)

	_, err := signer.Verify("not.a.jwt")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	_, err = signer.Verify("")
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer := jwtx.NewSigner("secret", "timesheet-test", -time.Minute)

	token, err := signer.Mint("user-1", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpiredToken)
}
