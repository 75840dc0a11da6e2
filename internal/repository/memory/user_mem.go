package memory

import (
	"context"
	"sync"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/util"
)

// UserRepository implements repository.UserRepository in memory.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.User
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{byID: make(map[int64]domain.User)}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return util.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return util.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.ID == id })
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) find(ctx context.Context, match func(domain.User) bool) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, util.ErrNotFound
}
