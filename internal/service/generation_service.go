package service

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/metrics"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TextGenerator is the external text generation capability.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// jsonObjectPattern spans from the first '{' to the last '}' in the text.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSONObject returns the brace-delimited span of a free-text
// completion, or false when there is none.
func ExtractJSONObject(text string) (string, bool) {
	span := jsonObjectPattern.FindString(text)
	return span, span != ""
}

// generatedPlan is the two-key object the model is asked to return.
type generatedPlan struct {
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
}

// GenerateInput is one plan generation request.
type GenerateInput struct {
	UserID  primitive.ObjectID
	Name    string
	Profile domain.FitnessProfile
}

type GenerationService interface {
	Generate(ctx context.Context, in GenerateInput) (*domain.Plan, error)
}

type generationService struct {
	generator TextGenerator
	plans     PlanService
	timeout   time.Duration
	now       func() time.Time
}

// NewGenerationService wires the gateway. timeout bounds each upstream call;
// zero leaves the caller's context as the only bound.
func NewGenerationService(generator TextGenerator, plans PlanService, timeout time.Duration) GenerationService {
	return &generationService{
		generator: generator,
		plans:     plans,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Generate asks the model for a plan, decodes the JSON object embedded in
// its answer and stores it as a new active plan. Nothing is stored when
// any step fails; there are no retries.
func (s *generationService) Generate(ctx context.Context, in GenerateInput) (*domain.Plan, error) {
	if in.UserID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	logger := log.Ctx(ctx).With().Str("user_id", in.UserID.Hex()).Logger()

	text, err := s.callUpstream(ctx, BuildPlanPrompt(in.Profile))
	if err != nil {
		metrics.PlanGenerationsTotal.WithLabelValues("upstream_error").Inc()
		logger.Error().Err(err).Msg("plan generation upstream failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	parsed, err := decodeGeneratedPlan(text)
	if err != nil {
		metrics.PlanGenerationsTotal.WithLabelValues("format_error").Inc()
		logger.Warn().Err(err).Int("response_len", len(text)).Msg("plan generation response unusable")
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "AI Plan " + s.now().Format("2006-01-02")
	}

	plan, err := s.plans.Create(ctx, CreatePlanInput{
		UserID:      in.UserID,
		Name:        name,
		WorkoutPlan: parsed.WorkoutPlan,
		DietPlan:    parsed.DietPlan,
		IsActive:    true,
		Source:      domain.PlanSourceGenerated,
	})
	if err != nil {
		metrics.PlanGenerationsTotal.WithLabelValues("store_error").Inc()
		return nil, err
	}

	metrics.PlanGenerationsTotal.WithLabelValues("success").Inc()
	logger.Info().Str("plan_id", plan.ID.Hex()).Msg("plan generated")
	return plan, nil
}

func (s *generationService) callUpstream(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { metrics.PlanGenerationDuration.Observe(time.Since(start).Seconds()) }()

	return s.generator.Generate(ctx, prompt)
}

func decodeGeneratedPlan(text string) (*generatedPlan, error) {
	span, ok := ExtractJSONObject(text)
	if !ok {
		return nil, ErrUpstreamFormat
	}

	var parsed generatedPlan
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}
	return &parsed, nil
}
