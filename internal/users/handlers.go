package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandlers provides HTTP handlers for user CRUD operations
type UserHandlers struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(service UserService, logger *zap.Logger) *UserHandlers {
	return &UserHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/users/:userId", h.GetUser)
	router.POST("/users", h.CreateUser)
	router.PUT("/users/:userId", h.UpdateUser)
	router.DELETE("/users/:userId", h.DeleteUser)
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id query"})
		return
	}

	user, err := h.service.Read(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	input, fields := DecodeUserInput(c.Request.Body)
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": fields})
		return
	}

	user, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id query"})
		return
	}

	input, fields := DecodeUserInput(c.Request.Body)
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": fields})
		return
	}

	user, err := h.service.Update(c.Request.Context(), userID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")

	id, err := h.service.Delete(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// the browser client expects the deleted id back as plain text
	c.String(http.StatusOK, id)
}

// respondError maps a service error to a response. Validation detail goes to
// the client on 400s; 500-class errors get a generic message with detail only
// in the logs.
func (h *UserHandlers) respondError(c *gin.Context, err error) {
	var userErr *UserError
	if !errors.As(err, &userErr) {
		h.logger.Error("Unhandled error in user handler", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	switch userErr.Type {
	case UserErrorTypeInvalidRequest:
		c.JSON(http.StatusBadRequest, gin.H{"error": userErr.Message})
	case UserErrorTypeValidationFailed:
		c.JSON(http.StatusBadRequest, gin.H{"error": userErr.Message, "details": userErr.Fields})
	case UserErrorTypeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case UserErrorTypeUpstreamUnavailable:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not connect to Weather API"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not complete the request"})
	}
}
