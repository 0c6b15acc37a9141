package api

import (
	"codeflex/fitness-api/internal/domain"
	"codeflex/fitness-api/internal/metrics"
	"codeflex/fitness-api/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	cookie      SessionCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, cookie SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created, session cookie set"
// @Failure 400 {object} envelope "Invalid input or email already registered"
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.authService.IssueSession(user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.cookie.set(c, session.Token)

	respondOK(c, http.StatusCreated, MapUserToResponse(user, ""))
}

// Login godoc
// @Summary Log in a user
// @Description Verifies credentials and sets the session cookie.
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse "Login successful"
// @Failure 401 {object} envelope "Invalid email or password"
// @Failure 429 {object} envelope "Too many attempts"
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		respondError(c, err)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	h.cookie.set(c, session.Token)
	respondOK(c, http.StatusOK, MapUserToResponse(user, ""))
}

// Logout clears the session cookie. The token itself stays valid until it
// expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.clear(c)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User, imageURL string) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		ImageURL:  imageURL,
		CreatedAt: user.CreatedAt,
	}
}
