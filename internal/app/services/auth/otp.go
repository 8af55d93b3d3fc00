package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	domainauth "thriftee/internal/domain/auth"
	domainuser "thriftee/internal/domain/user"
)

var ErrEmailInvalid = errors.New("auth: email address is invalid")

// SendOTP stores a fresh one-time code for the address and emails it.
// A new code replaces any outstanding one.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	if s.OTPs == nil {
		return errors.New("auth: otp store required")
	}
	if s.Mail == nil {
		return errors.New("auth: mailer required")
	}
	email = domainuser.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrEmailInvalid
	}
	code, err := s.newOTPCode()
	if err != nil {
		return err
	}
	otp, err := domainauth.NewOTP(email, code, s.now())
	if err != nil {
		return err
	}
	if err := s.OTPs.Save(ctx, otp); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := s.Mail.SendOTP(email, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("otp issued", "email", email)
	}
	return nil
}

// VerifyOTP consumes a one-time code and issues a session. The code is
// single-use: it is deleted on success regardless of later failures.
// A first-time address gets an account created on the spot.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if s.OTPs == nil {
		return nil, errors.New("auth: otp store required")
	}
	email = domainuser.NormalizeEmail(email)
	if email == "" {
		return nil, domainauth.ErrEmailRequired
	}
	otp, err := s.OTPs.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := otp.Verify(code, s.now()); err != nil {
		return nil, err
	}
	if err := s.OTPs.Delete(ctx, email); err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}

	account, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, domainuser.ErrNotFound) {
		account, err = domainuser.NewUser(domainuser.CreateParams{
			ID:        domainuser.ID(uuid.NewString()),
			Email:     email,
			Name:      nameFromEmail(email),
			CreatedAt: s.now(),
		})
		if err != nil {
			return nil, err
		}
		if err := s.Users.Save(ctx, account); err != nil {
			return nil, err
		}
		if s.Logger != nil {
			s.Logger.Info("user created via otp", "user_id", account.ID, "email", email)
		}
	} else if err != nil {
		return nil, err
	}

	token, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Token: token}, nil
}

func (s *Service) newOTPCode() (string, error) {
	if s.OTPCodes != nil {
		return s.OTPCodes()
	}
	// Six digits, 100000..999999.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp entropy: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
