package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/repository/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const wrappedCompletion = "Sure! Here is your plan:\n```json\n" + `{
  "workoutPlan": {
    "schedule": ["Monday", "Wednesday", "Friday"],
    "exercises": [
      {"day": "Monday", "routines": [{"name": "Bench Press", "sets": 4, "reps": 8}]}
    ]
  },
  "dietPlan": {
    "dailyCalories": 2400,
    "meals": [{"name": "Lunch", "foods": ["Rice", "Chicken"]}]
  }
}` + "\n```\nGood luck!"

func newGenerationFixture(gen TextGenerator, timeout time.Duration) (*generationService, *memory.PlanRepo) {
	repo := memory.NewPlanRepo()
	svc := NewGenerationService(gen, NewPlanService(repo, nil), timeout).(*generationService)
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func storedPlans(t *testing.T, repo *memory.PlanRepo, owner primitive.ObjectID) int {
	t.Helper()
	plans, err := repo.GetByUserID(context.Background(), owner)
	require.NoError(t, err)
	return len(plans)
}

func TestExtractJSONObject(t *testing.T) {
	span, ok := ExtractJSONObject("noise {\"a\": {\"b\": 1}} trailing")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, span)

	_, ok = ExtractJSONObject("I cannot help with that.")
	assert.False(t, ok)
}

func TestGenerate_ExtractsAndPersists(t *testing.T) {
	gen := &stubGenerator{text: wrappedCompletion}
	svc, repo := newGenerationFixture(gen, time.Second)
	owner := primitive.NewObjectID()

	profile := domain.FitnessProfile{}
	profile.Goals.PrimaryGoal = "muscle gain"
	profile.Equipment.AvailableEquipment = []string{"barbell", "bench"}

	plan, err := svc.Generate(context.Background(), GenerateInput{UserID: owner, Profile: profile})
	require.NoError(t, err)

	assert.Equal(t, "AI Plan 2026-03-09", plan.Name)
	assert.True(t, plan.IsActive)
	assert.Equal(t, owner, plan.UserID)
	assert.Equal(t, []string{"Monday", "Wednesday", "Friday"}, plan.WorkoutPlan.Schedule)
	require.Len(t, plan.WorkoutPlan.Exercises, 1)
	assert.Equal(t, domain.Routine{Name: "Bench Press", Sets: 4, Reps: 8}, plan.WorkoutPlan.Exercises[0].Routines[0])
	assert.Equal(t, 2400.0, plan.DietPlan.DailyCalories)
	assert.Equal(t, 1, storedPlans(t, repo, owner))

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "muscle gain")
	assert.Contains(t, gen.prompts[0], "barbell, bench")
	assert.Contains(t, gen.prompts[0], `"workoutPlan"`)
}

func TestGenerate_UsesGivenName(t *testing.T) {
	svc, _ := newGenerationFixture(&stubGenerator{text: wrappedCompletion}, 0)

	plan, err := svc.Generate(context.Background(), GenerateInput{UserID: primitive.NewObjectID(), Name: "Summer"})
	require.NoError(t, err)
	assert.Equal(t, "Summer", plan.Name)
}

func TestGenerate_NoJSONObject(t *testing.T) {
	svc, repo := newGenerationFixture(&stubGenerator{text: "Sorry, I can't do that."}, 0)

	owner := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), GenerateInput{UserID: owner})
	assert.ErrorIs(t, err, ErrUpstreamFormat)
	assert.Zero(t, storedPlans(t, repo, owner))
}

func TestGenerate_MalformedJSON(t *testing.T) {
	svc, repo := newGenerationFixture(&stubGenerator{text: `here {"workoutPlan": {"schedule": [} done`}, 0)

	owner := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), GenerateInput{UserID: owner})
	assert.ErrorIs(t, err, ErrUpstreamFormat)
	assert.Zero(t, storedPlans(t, repo, owner))
}

func TestGenerate_TypeMismatch(t *testing.T) {
	text := `{"workoutPlan": {"exercises": [{"day": "Mon", "routines": [{"name": "Row", "sets": "three", "reps": 10}]}]}, "dietPlan": {}}`
	svc, repo := newGenerationFixture(&stubGenerator{text: text}, 0)

	owner := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), GenerateInput{UserID: owner})
	assert.ErrorIs(t, err, ErrUpstreamFormat)
	assert.Zero(t, storedPlans(t, repo, owner))
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	svc, repo := newGenerationFixture(&stubGenerator{err: errors.New("503 from provider")}, 0)

	owner := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), GenerateInput{UserID: owner})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Zero(t, storedPlans(t, repo, owner))
}

func TestGenerate_Timeout(t *testing.T) {
	gen := &stubGenerator{text: wrappedCompletion, delay: time.Second}
	svc, repo := newGenerationFixture(gen, 20*time.Millisecond)

	owner := primitive.NewObjectID()
	_, err := svc.Generate(context.Background(), GenerateInput{UserID: owner})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Zero(t, storedPlans(t, repo, owner))
}

func TestGenerate_RequiresUser(t *testing.T) {
	gen := &stubGenerator{text: wrappedCompletion}
	svc, _ := newGenerationFixture(gen, 0)

	_, err := svc.Generate(context.Background(), GenerateInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, gen.prompts)
}
