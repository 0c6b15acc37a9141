package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is one exercise inside a training day.
type Routine struct {
	Name string `bson:"name" json:"name"`
	Sets int    `bson:"sets" json:"sets"`
	Reps int    `bson:"reps" json:"reps"`
}

// ExerciseDay groups the routines performed on one schedule day.
type ExerciseDay struct {
	Day      string    `bson:"day" json:"day"`
	Routines []Routine `bson:"routines" json:"routines"`
}

type WorkoutPlan struct {
	Schedule  []string      `bson:"schedule" json:"schedule"`
	Exercises []ExerciseDay `bson:"exercises" json:"exercises"`
}

type Meal struct {
	Name  string   `bson:"name" json:"name"`
	Foods []string `bson:"foods" json:"foods"`
}

type DietPlan struct {
	DailyCalories float64 `bson:"dailyCalories" json:"dailyCalories"`
	Meals         []Meal  `bson:"meals" json:"meals"`
}

// Plan is a workout + diet document owned by one user.
// IsActive is advisory; several plans of one user may be active at once.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	WorkoutPlan WorkoutPlan        `bson:"workoutPlan" json:"workoutPlan"`
	DietPlan    DietPlan           `bson:"dietPlan" json:"dietPlan"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PlanSource records how a plan came to exist.
type PlanSource string

const (
	PlanSourceManual    PlanSource = "manual"
	PlanSourceGenerated PlanSource = "generated"
)
