// Package memory provides process-local repositories used when the service
// runs with database.driver=memory and by tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]domain.User
	byEmail map[string]primitive.ObjectID
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[primitive.ObjectID]domain.User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return user.ID, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string, withPassword bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	if !withPassword {
		u.PasswordHash = ""
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		u.PasswordHash = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.Hex() < users[j].ID.Hex()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepo) SetImage(ctx context.Context, id primitive.ObjectID, imageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Image = imageKey
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

func (r *UserRepo) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}
