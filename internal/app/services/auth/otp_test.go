package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "thriftee/internal/domain/auth"
)

func TestSendOTPDeliversSixDigitCode(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "Anna@Example.com "))
	require.Len(t, mail.codes, 1)
	assert.Equal(t, "anna@example.com", mail.emails[0])
	assert.Len(t, mail.codes[0], 6)

	n, err := strconv.Atoi(mail.codes[0])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)
}

func TestSendOTPRejectsBadAddress(t *testing.T) {
	svc, _ := newTestService()

	assert.ErrorIs(t, svc.SendOTP(context.Background(), ""), ErrEmailInvalid)
	assert.ErrorIs(t, svc.SendOTP(context.Background(), "not-an-email"), ErrEmailInvalid)
}

func TestVerifyOTPCreatesAccountAndSession(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))

	result, err := svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[0])
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", result.User.Email)
	assert.Equal(t, "anna", result.User.Name)
	assert.Empty(t, result.User.PasswordHash)
	assert.NotEmpty(t, result.Token)

	resolved, err := svc.ResolveToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, resolved.User.ID)
}

func TestVerifyOTPReusesExistingAccount(t *testing.T) {
	svc, mail := newTestService()

	registered, err := svc.Register(context.Background(), RegisterParams{
		Email: "anna@example.com", Name: "Anna", Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))
	result, err := svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[0])
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
}

func TestVerifyOTPIsSingleUse(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))
	code := mail.codes[0]

	_, err := svc.VerifyOTP(context.Background(), "anna@example.com", code)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(context.Background(), "anna@example.com", code)
	assert.ErrorIs(t, err, domainauth.ErrOTPNotFound)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))

	_, err := svc.VerifyOTP(context.Background(), "anna@example.com", "000000")
	assert.ErrorIs(t, err, domainauth.ErrOTPMismatch)

	// the code survives a failed attempt
	_, err = svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[0])
	assert.NoError(t, err)
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))

	svc.Now = func() time.Time { return time.Now().Add(domainauth.OTPTTL + time.Minute) }

	_, err := svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[0])
	assert.ErrorIs(t, err, domainauth.ErrOTPExpired)
}

func TestFreshOTPReplacesOutstanding(t *testing.T) {
	svc, mail := newTestService()

	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))
	require.NoError(t, svc.SendOTP(context.Background(), "anna@example.com"))
	require.Len(t, mail.codes, 2)

	if mail.codes[0] != mail.codes[1] {
		_, err := svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[0])
		assert.ErrorIs(t, err, domainauth.ErrOTPMismatch)
	}

	_, err := svc.VerifyOTP(context.Background(), "anna@example.com", mail.codes[1])
	assert.NoError(t, err)
}
