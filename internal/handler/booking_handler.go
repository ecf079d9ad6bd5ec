package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/application"
	bookingDomain "github.com/babyconnect/service-booking/internal/domain/booking"
	"github.com/babyconnect/service-booking/internal/shared/auth"
	"github.com/babyconnect/service-booking/internal/shared/middleware"
	"github.com/babyconnect/service-booking/internal/shared/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service   *application.BookingService
	onCheckIn func(bookingID uuid.UUID)
}

// NewBookingHandler creates a new BookingHandler. onCheckIn, when non-nil, is
// invoked after every successful check-in.
func NewBookingHandler(service *application.BookingService, onCheckIn func(uuid.UUID)) *BookingHandler {
	return &BookingHandler{service: service, onCheckIn: onCheckIn}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.POST("", middleware.RequireRole(auth.RoleClient), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/active", h.GetActiveBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/live", h.GetLiveStatus)
		bookings.POST("/:id/checkin", middleware.RequireRole(auth.RoleSitter), h.CheckIn)
		bookings.POST("/:id/complete", middleware.RequireRole(auth.RoleSitter), h.CompleteBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/extension", middleware.RequireRole(auth.RoleClient), h.RequestExtension)
		bookings.POST("/:id/extension/resolve", middleware.RequireRole(auth.RoleSitter), h.ResolveExtension)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Clients see their own bookings,
// sitters see bookings assigned to them.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	if role == auth.RoleSitter {
		result, err := h.service.GetSitterBookings(c.Request.Context(), userID, page, limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
		return
	}

	result, err := h.service.GetClientBookings(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetActiveBooking handles GET /api/v1/bookings/active. Returns the caller's
// in-progress or next upcoming confirmed booking.
func (h *BookingHandler) GetActiveBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	party := bookingDomain.PartyClient
	if role == auth.RoleSitter {
		party = bookingDomain.PartySitter
	}

	result, err := h.service.GetActiveOrUpcoming(c.Request.Context(), userID, party)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetLiveStatus handles GET /api/v1/bookings/:id/live. Poll-friendly snapshot
// of an in-progress session: countdown, progress, pending extension.
func (h *BookingHandler) GetLiveStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetLiveStatus(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckIn handles POST /api/v1/bookings/:id/checkin (sitter arrives on site).
func (h *BookingHandler) CheckIn(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	sitterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		HealthNote string `json:"health_note"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CheckIn(c.Request.Context(), bookingID, sitterID, body.HealthNote)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.onCheckIn != nil {
		h.onCheckIn(bookingID)
	}

	response.Success(c, result)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete (sitter closes the session).
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	sitterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.CompleteBooking(c.Request.Context(), bookingID, sitterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), bookingID, userID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RequestExtension handles POST /api/v1/bookings/:id/extension (client asks for more time).
func (h *BookingHandler) RequestExtension(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Minutes int `json:"minutes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RequestExtension(c.Request.Context(), bookingID, userID, body.Minutes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ResolveExtension handles POST /api/v1/bookings/:id/extension/resolve (sitter accepts or rejects).
func (h *BookingHandler) ResolveExtension(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	sitterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Accept *bool `json:"accept" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ResolveExtension(c.Request.Context(), bookingID, sitterID, *body.Accept)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
