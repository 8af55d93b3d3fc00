package auth

import (
	"context"
	"errors"
	"fmt"
	"io"

	domainuser "thriftee/internal/domain/user"
)

// Uploader stores binary content and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type UpdateProfileParams struct {
	Name string
	City string
}

func (s *Service) UpdateProfile(ctx context.Context, userID domainuser.ID, params UpdateProfileParams) (*domainuser.User, error) {
	if s.Users == nil {
		return nil, errors.New("auth: user repository required")
	}
	account, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := account.UpdateProfile(params.Name, params.City, "", s.now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// SetAvatar uploads the picture and stores its URL on the profile.
func (s *Service) SetAvatar(ctx context.Context, userID domainuser.ID, uploader Uploader, key, contentType string, reader io.Reader) (*domainuser.User, error) {
	if s.Users == nil {
		return nil, errors.New("auth: user repository required")
	}
	if uploader == nil {
		return nil, errors.New("auth: uploader unavailable")
	}
	account, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := uploader.Upload(ctx, key, reader, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := account.UpdateProfile(account.Name, account.City, url, s.now()); err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
