package rental

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkshare/internal/modules/wallet"
	"parkshare/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rentals", h.RentSpace)
	rg.POST("/rentals/:id/release", h.ReleaseSpace)
	rg.GET("/rentals/:id", h.GetRental)
	rg.GET("/my/rentals", h.ListMyRentals)
	rg.GET("/spaces/:id/rentals", h.ListSpaceRentals)
}

func (h *Handler) RentSpace(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req RentSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	agreement, err := h.service.RentSpace(c.Request.Context(), req.SpaceID, userID, req.Hours, req.PaidAmount)
	if err != nil {
		switch {
		case errors.Is(err, ErrSpaceNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Space not found")
		case errors.Is(err, ErrNotAvailable):
			response.Error(c, http.StatusConflict, "NOT_AVAILABLE", "Space is already rented")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Hours must be positive")
		case errors.Is(err, ErrIncorrectPayment):
			response.Error(c, http.StatusBadRequest, "INCORRECT_PAYMENT", "Payment must equal price_per_hour * hours")
		case errors.Is(err, ErrBookingConflict):
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Previous rental window has not elapsed")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Not enough balance to pay for the rental")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to rent space")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"rental": agreement})
}

func (h *Handler) ReleaseSpace(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	rentalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rental ID")
		return
	}

	agreement, err := h.service.ReleaseSpace(c.Request.Context(), rentalID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotActive):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_ACTIVE", "Rental is not active")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the renter, or the owner after expiry, may release")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to release space")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rental": agreement})
}

func (h *Handler) GetRental(c *gin.Context) {
	rentalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rental ID")
		return
	}

	agreement, err := h.service.GetRental(c.Request.Context(), rentalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get rental")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rental": agreement})
}

func (h *Handler) ListMyRentals(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rentals, err := h.service.ListByRenter(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rentals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rentals": rentals})
}

func (h *Handler) ListSpaceRentals(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rentals, err := h.service.ListBySpace(c.Request.Context(), spaceID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rentals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rentals": rentals})
}
