package api

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService       service.PlanService
	generationService service.GenerationService
}

func NewPlanHandler(planService service.PlanService, generationService service.GenerationService) *PlanHandler {
	return &PlanHandler{planService: planService, generationService: generationService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	UserID      string             `json:"userId"` // defaults to the caller
	Name        string             `json:"name" binding:"required"`
	WorkoutPlan domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    domain.DietPlan    `json:"dietPlan"`
	IsActive    *bool              `json:"isActive"` // defaults to true
}

type GeneratePlanRequest struct {
	UserID  string                `json:"userId"`
	Name    string                `json:"name"`
	Payload domain.FitnessProfile `json:"payload"`
}

// CreatePlan godoc
// @Summary Store a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan"
// @Success 201 {object} domain.Plan
// @Failure 400 {object} envelope "Invalid input"
// @Failure 403 {object} envelope "Plan for another user"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID, err := resolveOwner(c, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	plan, err := h.planService.Create(c.Request.Context(), service.CreatePlanInput{
		UserID:      ownerID,
		Name:        req.Name,
		WorkoutPlan: req.WorkoutPlan,
		DietPlan:    req.DietPlan,
		IsActive:    isActive,
		Source:      domain.PlanSourceManual,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, plan)
}

// GetUserPlans returns a user's plans, newest first.
func (h *PlanHandler) GetUserPlans(c *gin.Context) {
	ownerID, err := resolveOwner(c, c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	plans, err := h.planService.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, plans)
}

// GeneratePlan godoc
// @Summary Generate a plan from a fitness questionnaire
// @Description Sends the questionnaire to the text generation endpoint and stores the returned plan as active.
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body GeneratePlanRequest true "Questionnaire"
// @Success 201 {object} domain.Plan
// @Failure 403 {object} envelope "Plan for another user"
// @Failure 429 {object} envelope "Too many generations"
// @Failure 500 {object} envelope "Generation failed"
// @Router /plans/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ownerID, err := resolveOwner(c, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.generationService.Generate(c.Request.Context(), service.GenerateInput{
		UserID:  ownerID,
		Name:    req.Name,
		Profile: req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, plan)
}

// resolveOwner returns the plan owner for a request. An empty id means the
// caller; someone else's id requires the admin role.
func resolveOwner(c *gin.Context, requested string) (primitive.ObjectID, error) {
	caller, ok := currentUser(c)
	if !ok {
		return primitive.NilObjectID, service.ErrNoToken
	}

	requested = strings.TrimSpace(requested)
	if requested == "" {
		return caller.ID, nil
	}

	ownerID, err := primitive.ObjectIDFromHex(requested)
	if err != nil {
		return primitive.NilObjectID, service.ErrInvalidInput
	}
	if ownerID != caller.ID && !caller.IsAdmin() {
		return primitive.NilObjectID, service.ErrNotOwner
	}
	return ownerID, nil
}
