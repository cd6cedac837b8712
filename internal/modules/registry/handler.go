package registry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkshare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/spaces", h.ListSpaces)
	rg.GET("/spaces/:id", h.GetSpace)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/spaces", h.CreateSpace)
	rg.GET("/my/spaces", h.ListMySpaces)
	rg.PATCH("/spaces/:id/availability", h.UpdateAvailability)
}

func (h *Handler) CreateSpace(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.ListSpace(c.Request.Context(), userID, req.Location, req.PricePerHour)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Location must be non-empty and price positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list space")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"space": space})
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	space, err := h.service.UpdateAvailability(c.Request.Context(), spaceID, userID, *req.IsAvailable)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the owner can change availability")
		case errors.Is(err, ErrStillRented):
			response.Error(c, http.StatusConflict, "STILL_RENTED", "Space is rented until the current window ends")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update availability")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) GetSpace(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}

	space, err := h.service.GetSpace(c.Request.Context(), spaceID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get space")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"space": space})
}

func (h *Handler) ListSpaces(c *gin.Context) {
	onlyAvailable := c.Query("available") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	spaces, err := h.service.ListSpaces(c.Request.Context(), onlyAvailable, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list spaces")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"spaces": spaces})
}

func (h *Handler) ListMySpaces(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	spaces, err := h.service.ListMySpaces(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list spaces")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"spaces": spaces})
}
