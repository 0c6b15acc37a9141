package repository

import (
	"codeflex/fitness-api/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository persists user accounts. Reads never return the password
// hash unless GetByEmail is called with withPassword set.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetImage(ctx context.Context, id primitive.ObjectID, imageKey string) error
	SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
}

// PlanRepository persists plan documents.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	// GetByUserID returns the user's plans, newest first.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error)
}
