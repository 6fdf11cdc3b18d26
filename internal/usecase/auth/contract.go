package auth

import (
	"context"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/user"
)

// Repository persists registered users and issued sessions.
type Repository interface {
	UserExists(ctx context.Context, email string) (bool, error)
	GetUser(ctx context.Context, email string) (user.User, error)
	SaveUser(ctx context.Context, u user.User) error
	SaveSession(ctx context.Context, s user.Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (user.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
