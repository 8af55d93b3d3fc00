package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "thriftee/internal/domain/auth"
	domainuser "thriftee/internal/domain/user"
)

// OTPStore keeps one-time codes in Redis. The key TTL enforces expiry;
// saving a new code for the same email replaces the old one.
type OTPStore struct {
	client *redis.Client
}

func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

type otpRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *OTPStore) Save(ctx context.Context, otp *domainauth.OTP) error {
	if otp == nil || otp.Email == "" {
		return domainauth.ErrEmailRequired
	}
	payload, err := json.Marshal(otpRecord{Email: otp.Email, Code: otp.Code, CreatedAt: otp.CreatedAt})
	if err != nil {
		return fmt.Errorf("redis: marshal otp: %w", err)
	}
	return s.client.Set(ctx, otpKey(otp.Email), payload, domainauth.OTPTTL).Err()
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domainauth.OTP, error) {
	payload, err := s.client.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainauth.ErrOTPNotFound
		}
		return nil, err
	}
	var record otpRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("redis: unmarshal otp: %w", err)
	}
	return &domainauth.OTP{Email: record.Email, Code: record.Code, CreatedAt: record.CreatedAt}, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}

func otpKey(email string) string {
	return "otp:" + domainuser.NormalizeEmail(email)
}
