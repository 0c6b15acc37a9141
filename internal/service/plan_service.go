package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/events"
	"codeflex/fitness-api/internal/repository"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePlanInput carries the fields of a new plan.
type CreatePlanInput struct {
	UserID      primitive.ObjectID
	Name        string
	WorkoutPlan domain.WorkoutPlan
	DietPlan    domain.DietPlan
	IsActive    bool
	Source      domain.PlanSource
}

type PlanService interface {
	Create(ctx context.Context, in CreatePlanInput) (*domain.Plan, error)
	// ListForOwner returns the owner's plans, most recently created first.
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Plan, error)
}

type planService struct {
	planRepo  repository.PlanRepository
	publisher events.Publisher
}

func NewPlanService(planRepo repository.PlanRepository, publisher events.Publisher) PlanService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &planService{planRepo: planRepo, publisher: publisher}
}

// Create stores a plan as given. Other active plans of the owner are left
// untouched.
func (s *planService) Create(ctx context.Context, in CreatePlanInput) (*domain.Plan, error) {
	name := strings.TrimSpace(in.Name)
	if in.UserID == primitive.NilObjectID || name == "" {
		return nil, fmt.Errorf("%w: userId and name are required", ErrInvalidInput)
	}
	if in.Source == "" {
		in.Source = domain.PlanSourceManual
	}

	plan := &domain.Plan{
		UserID:      in.UserID,
		Name:        name,
		WorkoutPlan: in.WorkoutPlan,
		DietPlan:    in.DietPlan,
		IsActive:    in.IsActive,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.RoutingPlanCreated, events.PlanCreated{
		PlanID: plan.ID,
		UserID: plan.UserID,
		Source: string(in.Source),
	}); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("plan_id", plan.ID.Hex()).Msg("publish plan.created failed")
	}

	return plan, nil
}

func (s *planService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Plan, error) {
	plans, err := s.planRepo.GetByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}
