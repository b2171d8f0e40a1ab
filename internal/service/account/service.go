// Package account backs the local dev server with in-memory accounts so the
// client's auth flows can be exercised without the production backend.
package account

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidCode        = errors.New("验证码错误")
	ErrInvalidToken       = errors.New("登录状态失效，请重新登录")
	ErrInvalidInviteCode  = errors.New("邀请码无效")
	ErrReferrerAlreadySet = errors.New("已使用过邀请码")
)

// masterSMSCode always passes, so the dev loop does not depend on reading
// logs for the generated code.
const masterSMSCode = "8888"

// referralBonus is credited to the referrer when a code is redeemed.
const referralBonus = 60

// Account is one registered user of the dev server.
type Account struct {
	UserID     string
	Username   string
	Email      string
	Phone      string
	Password   string
	Balance    int
	InviteCode string
	ReferrerID string
}

// Service holds all dev server account state behind one mutex.
type Service struct {
	mu       sync.Mutex
	byID     map[string]*Account
	tokens   map[string]string // token -> user id
	smsCodes map[string]string // phone -> last code
}

// NewService seeds a demo account so the client works out of the box:
// demo@taluo.app / taluo123.
func NewService() *Service {
	s := &Service{
		byID:     make(map[string]*Account),
		tokens:   make(map[string]string),
		smsCodes: make(map[string]string),
	}

	demo := &Account{
		UserID:     uuid.NewString(),
		Username:   "demo",
		Email:      "demo@taluo.app",
		Password:   "taluo123",
		Balance:    60,
		InviteCode: newInviteCode(),
	}
	s.byID[demo.UserID] = demo
	return s
}

// Register creates an email account. No token is issued; clients log in
// afterwards.
func (s *Service) Register(username, email, password string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmailLocked(email) != nil {
		return nil, ErrEmailTaken
	}

	account := &Account{
		UserID:     uuid.NewString(),
		Username:   username,
		Email:      email,
		Password:   password,
		InviteCode: newInviteCode(),
	}
	s.byID[account.UserID] = account
	return account, nil
}

// EmailLogin verifies credentials and issues a bearer token.
func (s *Service) EmailLogin(email, password string) (*Account, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account := s.findByEmailLocked(email)
	if account == nil || account.Password != password {
		return nil, "", ErrInvalidCredentials
	}
	return account, s.issueTokenLocked(account), nil
}

// SendSMSCode generates a login code for the number and logs it; the dev
// server has no SMS gateway.
func (s *Service) SendSMSCode(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := fmt.Sprintf("%06d", uuid.New().ID()%1000000)
	s.smsCodes[phone] = code
	log.Printf("[account] sms code for %s: %s", phone, code)
}

// PhoneLogin verifies the code and issues a token, registering the number
// on first login as the production backend does.
func (s *Service) PhoneLogin(phone, code string) (*Account, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code != masterSMSCode && code != s.smsCodes[phone] {
		return nil, "", ErrInvalidCode
	}
	delete(s.smsCodes, phone)

	account := s.findByPhoneLocked(phone)
	if account == nil {
		account = &Account{
			UserID:     uuid.NewString(),
			Username:   "用户" + phone[maxInt(0, len(phone)-4):],
			Phone:      phone,
			InviteCode: newInviteCode(),
		}
		s.byID[account.UserID] = account
	}
	return account, s.issueTokenLocked(account), nil
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(token string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	account, ok := s.byID[userID]
	if !ok {
		return nil, ErrInvalidToken
	}
	copied := *account
	return &copied, nil
}

// UpdateProfile rewrites username and email.
func (s *Service) UpdateProfile(userID, username, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[userID]
	if !ok {
		return ErrInvalidToken
	}
	if username != "" {
		account.Username = username
	}
	if email != "" {
		account.Email = email
	}
	return nil
}

// Balance returns the account's coin balance.
func (s *Service) Balance(userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[userID]
	if !ok {
		return 0, ErrInvalidToken
	}
	return account.Balance, nil
}

// SetReferrer redeems another account's invite code, once, and credits the
// referrer.
func (s *Service) SetReferrer(userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[userID]
	if !ok {
		return ErrInvalidToken
	}
	if account.ReferrerID != "" {
		return ErrReferrerAlreadySet
	}

	for _, candidate := range s.byID {
		if candidate.InviteCode == code && candidate.UserID != userID {
			account.ReferrerID = candidate.UserID
			candidate.Balance += referralBonus
			return nil
		}
	}
	return ErrInvalidInviteCode
}

func (s *Service) findByEmailLocked(email string) *Account {
	for _, account := range s.byID {
		if account.Email != "" && strings.EqualFold(account.Email, email) {
			return account
		}
	}
	return nil
}

func (s *Service) findByPhoneLocked(phone string) *Account {
	for _, account := range s.byID {
		if account.Phone == phone {
			return account
		}
	}
	return nil
}

func (s *Service) issueTokenLocked(account *Account) string {
	token := uuid.NewString()
	s.tokens[token] = account.UserID
	return token
}

func newInviteCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
