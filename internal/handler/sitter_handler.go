package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/application"
	sitterDomain "github.com/babyconnect/service-booking/internal/domain/sitter"
	"github.com/babyconnect/service-booking/internal/shared/auth"
	"github.com/babyconnect/service-booking/internal/shared/middleware"
	"github.com/babyconnect/service-booking/internal/shared/response"
)

// SitterHandler handles HTTP requests for the sitter directory.
type SitterHandler struct {
	service *application.SitterService
}

// NewSitterHandler creates a new SitterHandler.
func NewSitterHandler(service *application.SitterService) *SitterHandler {
	return &SitterHandler{service: service}
}

// RegisterRoutes registers all sitter routes on the given router group.
func (h *SitterHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	sitters := r.Group("/api/v1/sitters")
	sitters.Use(authMW)
	{
		sitters.POST("", middleware.RequireRole(auth.RoleSitter), h.CreateSitter)
		sitters.GET("", h.SearchSitters)
		sitters.GET("/:id", h.GetSitter)
		sitters.PUT("/me", middleware.RequireRole(auth.RoleSitter), h.UpdateSitter)
	}
}

// CreateSitter handles POST /api/v1/sitters.
func (h *SitterHandler) CreateSitter(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateSitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateSitter(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// SearchSitters handles GET /api/v1/sitters. Filterable by city and
// maximum hourly rate.
func (h *SitterHandler) SearchSitters(c *gin.Context) {
	page, limit := parsePagination(c)

	filter := sitterDomain.SearchFilter{
		City: c.Query("city"),
	}
	if raw := c.Query("max_rate"); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxHourlyRate = rate
		}
	}

	result, err := h.service.SearchSitters(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetSitter handles GET /api/v1/sitters/:id.
func (h *SitterHandler) GetSitter(c *gin.Context) {
	sitterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid sitter ID")
		return
	}

	result, err := h.service.GetSitter(c.Request.Context(), sitterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateSitter handles PUT /api/v1/sitters/me (sitter updates own profile).
func (h *SitterHandler) UpdateSitter(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateSitterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateSitter(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
