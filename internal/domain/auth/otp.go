package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"thriftee/internal/domain/user"
)

var (
	ErrEmailRequired = errors.New("auth: email is required")
	ErrCodeRequired  = errors.New("auth: code is required")
	ErrOTPNotFound   = errors.New("auth: otp not found")
	ErrOTPExpired    = errors.New("auth: otp expired")
	ErrOTPMismatch   = errors.New("auth: otp does not match")
)

// OTPTTL is how long an emailed one-time code stays valid.
const OTPTTL = 10 * time.Minute

// OTP is a single-use login code keyed by email. A fresh code replaces any
// outstanding one for the same address.
type OTP struct {
	Email     string
	Code      string
	CreatedAt time.Time
}

func NewOTP(email, code string, now time.Time) (*OTP, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &OTP{Email: email, Code: code, CreatedAt: now.UTC()}, nil
}

func (o *OTP) Expired(at time.Time) bool {
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Sub(o.CreatedAt) > OTPTTL
}

// Verify checks the presented code against this one. Expiry wins over
// mismatch so a stale-but-wrong code reports expiry.
func (o *OTP) Verify(code string, at time.Time) error {
	if o.Expired(at) {
		return ErrOTPExpired
	}
	if strings.TrimSpace(code) != o.Code {
		return ErrOTPMismatch
	}
	return nil
}

type OTPStore interface {
	Save(ctx context.Context, otp *OTP) error
	Get(ctx context.Context, email string) (*OTP, error)
	Delete(ctx context.Context, email string) error
}
