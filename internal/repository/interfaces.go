package repository

import (
	"context"
	"errors"

	"github.com/dkovac/chatter/internal/domain"
)

// ErrDuplicate reports an insert that lost to an existing row on a unique
// column, such as two concurrent creates for the same username.
var ErrDuplicate = errors.New("duplicate row")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// MessageRepository is an append-only log. Append assigns the record its id;
// ids increase monotonically in append order.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Message, error)
}
