package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/middleware"
	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/service/conversation"
)

type Handler struct {
	service *conversation.Service
}

func NewHandler(service *conversation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	messages := r.Group("/messages", auth.Authenticate())
	{
		messages.GET("/contacts", h.Contacts)
		messages.GET("/:counterpartyId", h.Thread)
		messages.POST("", h.Send)
		messages.PUT("/:counterpartyId/read", h.MarkRead)
	}
}

// Contacts lists everyone the caller can message: approved-booking
// counterparties and existing conversations.
func (h *Handler) Contacts(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	contacts, err := h.service.Directory(c.Request.Context(), principal)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": contacts})
}

func (h *Handler) Thread(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	counterpartyID, err := uuid.Parse(c.Param("counterpartyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid counterparty ID"})
		return
	}

	messages, err := h.service.Thread(c.Request.Context(), principal, counterpartyID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": messages})
}

func (h *Handler) Send(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	msg, err := h.service.Send(c.Request.Context(), principal, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": msg})
}

func (h *Handler) MarkRead(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	counterpartyID, err := uuid.Parse(c.Param("counterpartyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid counterparty ID"})
		return
	}

	n, err := h.service.MarkRead(c.Request.Context(), principal, counterpartyID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"updated": n}})
}
