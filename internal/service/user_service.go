package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkovac/chatter/internal/domain"
	"github.com/dkovac/chatter/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrUserNotFound  = errors.New("user not found")
	ErrProtectedUser = errors.New("this user cannot be deleted")
)

// DefaultProfilePic is assigned to accounts created without an avatar.
const DefaultProfilePic = "/uploads/default-avatar.svg"

// seedAdminID is the bootstrap admin account, which must survive any cleanup.
const seedAdminID = 1

// UserService covers the admin-facing account operations.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		ProfilePic:   DefaultProfilePic,
		IsAdmin:      input.IsAdmin,
		CreatedAt:    time.Now(),
	}

	id, err := s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent create for the same username beat us past the
		// existence check above.
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	user.ID = id

	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id == seedAdminID {
		return ErrProtectedUser
	}

	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}
