package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babyconnect/service-booking/internal/application"
	"github.com/babyconnect/service-booking/internal/shared/auth"
	"github.com/babyconnect/service-booking/internal/shared/middleware"
	"github.com/babyconnect/service-booking/internal/shared/response"
)

// MessageHandler handles HTTP requests for client/sitter chat.
type MessageHandler struct {
	service *application.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(service *application.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// RegisterRoutes registers all message routes on the given router group.
func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	messages := r.Group("/api/v1/messages")
	messages.Use(authMW)
	{
		messages.POST("", h.SendMessage)
		messages.GET("/:userId", h.GetConversation)
	}
}

// SendMessage handles POST /api/v1/messages.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SendMessage(c.Request.Context(), senderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetConversation handles GET /api/v1/messages/:userId. Returns the message
// history between the caller and the given user.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user ID")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetConversation(c.Request.Context(), userID, otherID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
