package service

import (
	"codeflex/fitness-api/internal/domain"
	"fmt"
	"strings"
)

const planJSONShape = `{
  "workoutPlan": {
    "schedule": ["Monday", "Wednesday", "Friday"],
    "exercises": [
      {
        "day": "Monday",
        "routines": [
          { "name": "Exercise name", "sets": 3, "reps": 10 }
        ]
      }
    ]
  },
  "dietPlan": {
    "dailyCalories": 2000,
    "meals": [
      { "name": "Breakfast", "foods": ["Oatmeal with berries", "Greek yogurt"] }
    ]
  }
}`

// BuildPlanPrompt turns a questionnaire into the instruction sent to the
// text generation endpoint.
func BuildPlanPrompt(p domain.FitnessProfile) string {
	var b strings.Builder

	b.WriteString("You are an experienced fitness coach and nutritionist. ")
	b.WriteString("Create a personalized workout program and diet plan for the following person.\n\n")

	u := p.UserProfile
	b.WriteString("Profile:\n")
	fmt.Fprintf(&b, "- Age: %d\n", u.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", orUnknown(u.Gender))
	fmt.Fprintf(&b, "- Height: %.1f cm\n", u.HeightCm)
	fmt.Fprintf(&b, "- Weight: %.1f kg\n", u.WeightKg)
	fmt.Fprintf(&b, "- Activity level: %s\n", orUnknown(u.ActivityLevel))
	fmt.Fprintf(&b, "- Sleep: %.1f hours per night\n", u.SleepHoursPerNight)

	g := p.Goals
	b.WriteString("\nGoals:\n")
	fmt.Fprintf(&b, "- Primary goal: %s\n", orUnknown(g.PrimaryGoal))
	if g.TargetWeightKg != nil {
		fmt.Fprintf(&b, "- Target weight: %.1f kg\n", *g.TargetWeightKg)
	}
	if g.GoalTimeframeWeeks != nil {
		fmt.Fprintf(&b, "- Timeframe: %d weeks\n", *g.GoalTimeframeWeeks)
	}

	e := p.Experience
	b.WriteString("\nExperience:\n")
	fmt.Fprintf(&b, "- Training experience: %.1f years\n", e.TrainingExperienceYears)
	fmt.Fprintf(&b, "- Exercise knowledge: %s\n", orUnknown(e.ExerciseKnowledge))
	fmt.Fprintf(&b, "- Previous injuries: %s\n", listOrNone(e.PreviousInjuries))

	s := p.Schedule
	b.WriteString("\nSchedule:\n")
	fmt.Fprintf(&b, "- Workout days per week: %d\n", s.WorkoutDaysPerWeek)
	fmt.Fprintf(&b, "- Time per session: %d minutes\n", s.AvailableTimePerSessionMinutes)

	pr := p.Preferences
	b.WriteString("\nPreferences:\n")
	fmt.Fprintf(&b, "- Preferred training styles: %s\n", listOrNone(pr.PreferredTrainingStyle))
	fmt.Fprintf(&b, "- Disliked exercises: %s\n", listOrNone(pr.DislikedExercises))
	fmt.Fprintf(&b, "- Enjoys cardio: %s\n", yesNo(pr.EnjoysCardio))

	eq := p.Equipment
	b.WriteString("\nEquipment:\n")
	fmt.Fprintf(&b, "- Training location: %s\n", orUnknown(eq.TrainingLocation))
	fmt.Fprintf(&b, "- Available equipment: %s\n", listOrNone(eq.AvailableEquipment))

	o := p.OutputPreferences
	b.WriteString("\nOutput:\n")
	if o.PlanDurationWeeks > 0 {
		fmt.Fprintf(&b, "- Plan duration: %d weeks\n", o.PlanDurationWeeks)
	}
	fmt.Fprintf(&b, "- Include nutrition guidelines: %s\n", yesNo(o.IncludeNutritionGuidelines))

	b.WriteString("\nRespond with ONLY a valid JSON object, no markdown and no commentary, with exactly two keys, ")
	b.WriteString(`"workoutPlan" and "dietPlan", in this shape:`)
	b.WriteString("\n")
	b.WriteString(planJSONShape)
	b.WriteString("\n\n\"sets\", \"reps\" and \"dailyCalories\" must be plain numbers. ")
	b.WriteString("Schedule one exercises entry per workout day and avoid the disliked exercises and anything unsafe for the listed injuries.")

	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
