package api

import (
	"codeflex/fitness-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ImageUploadResponse struct {
	UploadURL   string `json:"uploadUrl"`
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType"`
}

// GetProfile returns the caller's own record.
func (h *UserHandler) GetProfile(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		respondError(c, service.ErrNoToken)
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, MapUserToResponse(user, h.userService.ImageURL(c.Request.Context(), user)))
}

// ListUsers returns every user. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = MapUserToResponse(&users[i], "")
	}
	respondOK(c, http.StatusOK, resp)
}

// CreateImageUpload godoc
// @Summary Get a presigned URL for uploading a profile image
// @Tags Users
// @Accept json
// @Produce json
// @Param request body ImageUploadRequest true "Image content type (image/jpeg, image/png, image/webp)"
// @Success 200 {object} ImageUploadResponse
// @Failure 400 {object} envelope "Unsupported content type"
// @Failure 503 {object} envelope "Storage not configured"
// @Router /users/profile/image [post]
func (h *UserHandler) CreateImageUpload(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	caller, ok := currentUser(c)
	if !ok {
		respondError(c, service.ErrNoToken)
		return
	}

	upload, err := h.userService.CreateImageUpload(c.Request.Context(), caller.ID, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, ImageUploadResponse{
		UploadURL:   upload.UploadURL,
		ObjectKey:   upload.ObjectKey,
		ContentType: upload.ContentType,
	})
}
