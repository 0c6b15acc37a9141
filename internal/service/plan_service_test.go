package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/events"
	"codeflex/fitness-api/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func samplePlanInput(owner primitive.ObjectID, name string) CreatePlanInput {
	return CreatePlanInput{
		UserID: owner,
		Name:   name,
		WorkoutPlan: domain.WorkoutPlan{
			Schedule: []string{"Monday", "Thursday"},
			Exercises: []domain.ExerciseDay{{
				Day:      "Monday",
				Routines: []domain.Routine{{Name: "Squat", Sets: 5, Reps: 5}},
			}},
		},
		DietPlan: domain.DietPlan{
			DailyCalories: 2000,
			Meals:         []domain.Meal{{Name: "Breakfast", Foods: []string{"Oats"}}},
		},
		IsActive: true,
	}
}

func TestPlanCreate_StoresAndPublishes(t *testing.T) {
	repo := memory.NewPlanRepo()
	pub := &recordingPublisher{}
	svc := NewPlanService(repo, pub)
	owner := primitive.NewObjectID()

	plan, err := svc.Create(context.Background(), samplePlanInput(owner, "  Cut Phase "))
	require.NoError(t, err)
	assert.Equal(t, "Cut Phase", plan.Name)
	assert.True(t, plan.IsActive)
	assert.False(t, plan.ID.IsZero())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.RoutingPlanCreated, pub.keys[0])
	created := pub.events[0].(events.PlanCreated)
	assert.Equal(t, plan.ID, created.PlanID)
	assert.Equal(t, string(domain.PlanSourceManual), created.Source)
}

func TestPlanCreate_RequiresOwnerAndName(t *testing.T) {
	svc := NewPlanService(memory.NewPlanRepo(), nil)

	_, err := svc.Create(context.Background(), samplePlanInput(primitive.NilObjectID, "x"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Create(context.Background(), samplePlanInput(primitive.NewObjectID(), "   "))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlanCreate_KeepsOtherActivePlans(t *testing.T) {
	svc := NewPlanService(memory.NewPlanRepo(), nil)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	_, err := svc.Create(ctx, samplePlanInput(owner, "first"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, samplePlanInput(owner, "second"))
	require.NoError(t, err)

	plans, err := svc.ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.True(t, plans[0].IsActive)
	assert.True(t, plans[1].IsActive)
}

func TestListForOwner_NewestFirstAndIsolated(t *testing.T) {
	svc := NewPlanService(memory.NewPlanRepo(), nil)
	ctx := context.Background()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	for _, name := range []string{"p1", "p2", "p3"} {
		_, err := svc.Create(ctx, samplePlanInput(alice, name))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, samplePlanInput(bob, "bob plan"))
	require.NoError(t, err)

	plans, err := svc.ListForOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, []string{"p3", "p2", "p1"}, []string{plans[0].Name, plans[1].Name, plans[2].Name})

	none, err := svc.ListForOwner(ctx, primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, none)
}
