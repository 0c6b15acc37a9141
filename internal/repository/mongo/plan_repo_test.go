package mongo

import (
	"context"
	"testing"

	"codeflex/fitness-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoPlanRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoPlanRepository(mt.DB)

		plan := &domain.Plan{
			UserID:   primitive.NewObjectID(),
			Name:     "Cut Phase",
			DietPlan: domain.DietPlan{DailyCalories: 2000},
			IsActive: true,
		}
		id, err := repo.Create(context.Background(), plan)
		require.NoError(mt, err)
		assert.Equal(mt, id, plan.ID)
		assert.Equal(mt, plan.CreatedAt, plan.UpdatedAt)
	})

	mt.Run("requires owner and name", func(mt *mtest.T) {
		repo := NewMongoPlanRepository(mt.DB)
		_, err := repo.Create(context.Background(), &domain.Plan{Name: "x"})
		assert.Error(mt, err)
	})
}

func TestMongoPlanRepository_GetByUserID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes batch", func(mt *mtest.T) {
		owner := primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "test.plans", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: owner},
				{Key: "name", Value: "Newer"},
				{Key: "dietPlan", Value: bson.D{{Key: "dailyCalories", Value: 2200}}},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: owner},
				{Key: "name", Value: "Older"},
			},
		)
		last := mtest.CreateCursorResponse(0, "test.plans", mtest.NextBatch)
		mt.AddMockResponses(first, last)
		repo := NewMongoPlanRepository(mt.DB)

		plans, err := repo.GetByUserID(context.Background(), owner)
		require.NoError(mt, err)
		require.Len(mt, plans, 2)
		assert.Equal(mt, "Newer", plans[0].Name)
		assert.Equal(mt, 2200.0, plans[0].DietPlan.DailyCalories)
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.plans", mtest.FirstBatch))
		repo := NewMongoPlanRepository(mt.DB)

		plans, err := repo.GetByUserID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Empty(mt, plans)
		assert.NotNil(mt, plans)
	})
}
