package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainauth "thriftee/internal/domain/auth"
	domainuser "thriftee/internal/domain/user"
)

// UserRepository stores accounts in memory.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]domainuser.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domainuser.ID]*domainuser.User),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if account, ok := r.byID[id]; ok {
		return cloneUser(account), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if account, ok := r.byID[id]; ok {
		return cloneUser(account), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, account *domainuser.User) error {
	if account == nil {
		return domainuser.ErrIDRequired
	}
	id := strings.TrimSpace(string(account.ID))
	if id == "" {
		return domainuser.ErrIDRequired
	}
	emailKey := domainuser.NormalizeEmail(account.Email)
	if emailKey == "" {
		return domainuser.ErrEmailRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[emailKey]; ok && existingID != account.ID {
		return domainuser.ErrEmailAlreadyUsed
	}
	r.byEmail[emailKey] = account.ID
	r.byID[account.ID] = cloneUser(account)
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// SessionStore keeps bearer sessions in memory.
type SessionStore struct {
	mu        sync.RWMutex
	tokens    map[domainauth.Token]*domainauth.Session
	userIndex map[domainuser.ID]map[domainauth.Token]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		tokens:    make(map[domainauth.Token]*domainauth.Session),
		userIndex: make(map[domainuser.ID]map[domainauth.Token]struct{}),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	if session == nil || session.Token == "" {
		return domainauth.ErrTokenRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.tokens[session.Token] = &copied
	if s.userIndex[session.UserID] == nil {
		s.userIndex[session.UserID] = make(map[domainauth.Token]struct{})
	}
	s.userIndex[session.UserID][session.Token] = struct{}{}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.tokens[token]
	if !ok {
		return nil
	}
	delete(s.tokens, token)
	if index := s.userIndex[session.UserID]; index != nil {
		delete(index, token)
		if len(index) == 0 {
			delete(s.userIndex, session.UserID)
		}
	}
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID domainuser.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.userIndex[userID] {
		delete(s.tokens, token)
	}
	delete(s.userIndex, userID)
	return nil
}

// OTPStore keeps one-time codes in memory. Expiry is enforced on read so the
// behavior matches the TTL-backed Redis store.
type OTPStore struct {
	mu    sync.RWMutex
	codes map[string]*domainauth.OTP
}

func NewOTPStore() *OTPStore {
	return &OTPStore{codes: make(map[string]*domainauth.OTP)}
}

func (s *OTPStore) Save(ctx context.Context, otp *domainauth.OTP) error {
	if otp == nil || otp.Email == "" {
		return domainauth.ErrEmailRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *otp
	s.codes[otp.Email] = &copied
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (*domainauth.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	otp, ok := s.codes[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainauth.ErrOTPNotFound
	}
	if otp.Expired(time.Now()) {
		return nil, domainauth.ErrOTPNotFound
	}
	copied := *otp
	return &copied, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, domainuser.NormalizeEmail(email))
	return nil
}
