package domain

// FitnessProfile is the questionnaire a user fills in before a plan is
// generated. Pointer fields are optional answers.
type FitnessProfile struct {
	UserProfile       BodyProfile       `json:"user_profile"`
	Goals             Goals             `json:"goals"`
	Experience        Experience        `json:"experience"`
	Schedule          Availability      `json:"schedule"`
	Preferences       Preferences       `json:"preferences"`
	Equipment         Equipment         `json:"equipment"`
	OutputPreferences OutputPreferences `json:"output_preferences"`
}

type BodyProfile struct {
	Age                int     `json:"age"`
	Gender             string  `json:"gender"`
	HeightCm           float64 `json:"height_cm"`
	WeightKg           float64 `json:"weight_kg"`
	ActivityLevel      string  `json:"activity_level"`
	SleepHoursPerNight float64 `json:"sleep_hours_per_night"`
}

type Goals struct {
	PrimaryGoal        string   `json:"primary_goal"`
	TargetWeightKg     *float64 `json:"target_weight_kg"`
	GoalTimeframeWeeks *int     `json:"goal_timeframe_weeks"`
}

type Experience struct {
	TrainingExperienceYears float64  `json:"training_experience_years"`
	ExerciseKnowledge       string   `json:"exercise_knowledge"`
	PreviousInjuries        []string `json:"previous_injuries"`
}

type Availability struct {
	WorkoutDaysPerWeek             int `json:"workout_days_per_week"`
	AvailableTimePerSessionMinutes int `json:"available_time_per_session_minutes"`
}

type Preferences struct {
	PreferredTrainingStyle []string `json:"preferred_training_style"`
	DislikedExercises      []string `json:"disliked_exercises"`
	EnjoysCardio           bool     `json:"enjoys_cardio"`
}

type Equipment struct {
	TrainingLocation   string   `json:"training_location"`
	AvailableEquipment []string `json:"available_equipment"`
}

type OutputPreferences struct {
	PlanDurationWeeks          int  `json:"plan_duration_weeks"`
	IncludeNutritionGuidelines bool `json:"include_nutrition_guidelines"`
}
