package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanRepo struct {
	mu    sync.RWMutex
	plans []domain.Plan // insertion order
}

var _ repository.PlanRepository = (*PlanRepo)(nil)

func NewPlanRepo() *PlanRepo {
	return &PlanRepo{}
}

func (r *PlanRepo) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.UserID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	r.plans = append(r.plans, *plan)
	return plan.ID, nil
}

// GetByUserID walks the slice backwards so equal timestamps still come out
// newest first.
func (r *PlanRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Plan{}
	for i := len(r.plans) - 1; i >= 0; i-- {
		if r.plans[i].UserID == userID {
			out = append(out, r.plans[i])
		}
	}
	return out, nil
}
