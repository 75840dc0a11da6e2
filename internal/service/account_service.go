// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/security"
	"coupon-manager/internal/util"
)

// PasswordHasher is the one-way credential transform used by AccountService.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

// TokenIssuer issues and verifies bearer tokens bound to a username.
type TokenIssuer interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*security.Claims, error)
}

// TokenDenylist records tokens revoked before their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginResult is returned to a caller that presented valid credentials.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// AccountService defines the interface for registration and authentication.
type AccountService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	IssueToken(username string) (string, time.Time, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// accountService implements the AccountService interface.
// It is the only writer of password hashes and account flags.
type accountService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	denylist TokenDenylist
	now      func() time.Time

	// placeholderHash is compared against when the username is unknown.
	placeholderHash string
}

// NewAccountService creates a new instance of AccountService.
func NewAccountService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	denylist TokenDenylist,
	now func() time.Time,
) AccountService {
	if now == nil {
		now = time.Now
	}
	// Hashed up front so the first unknown-user login costs the same as later ones.
	// A short fixed input cannot exceed the hasher's length limit.
	placeholder, _ := hasher.Hash("placeholder-password")
	return &accountService{
		userRepo:        userRepo,
		hasher:          hasher,
		issuer:          issuer,
		denylist:        denylist,
		now:             now,
		placeholderHash: placeholder,
	}
}

// Register creates an account. Both uniqueness checks run before anything is
// hashed or written; the repository's constraints back them under concurrency.
func (s *accountService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if strings.TrimSpace(reg.Username) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", util.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetUserByUsername(ctx, reg.Username); err == nil {
		return nil, util.ErrDuplicateUsername
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetUserByEmail(ctx, reg.Email); err == nil {
		return nil, util.ErrDuplicateEmail
	} else if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("register: failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(reg.Username, reg.Email, hash, s.now())
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user.Sanitized(), nil
}

// Authenticate returns the user whose password matches. An unknown username and
// a wrong password yield the same ErrInvalidCredentials.
func (s *accountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			// Spend a comparison anyway so response time does not reveal the miss.
			_ = s.hasher.Compare(s.placeholderHash, password)
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the caller and issues a bearer token for them.
func (s *accountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.IssueToken(user.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitized(),
	}, nil
}

func (s *accountService) IssueToken(username string) (string, time.Time, error) {
	token, expiresAt, err := s.issuer.Issue(username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return token, expiresAt, nil
}

// CurrentUser resolves a bearer token to its (sanitized) account.
func (s *accountService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidToken
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user.Sanitized(), nil
}

// Logout revokes the token until it would have expired on its own.
func (s *accountService) Logout(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: failed to revoke token: %w", err)
	}
	return nil
}

func (s *accountService) verify(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidToken, err)
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, util.ErrInvalidToken
	}
	return claims, nil
}
