package rating

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/wellness-api/internal/middleware"
	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/service/rating"
)

type Handler struct {
	service *rating.Service
}

func NewHandler(service *rating.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.POST("/ratings", auth.Authenticate(), auth.RequireRole(model.RolePatient), h.Rate)
}

func (h *Handler) Rate(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	var req model.RateTherapyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	rating, err := h.service.Rate(c.Request.Context(), principal.ID, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": rating})
}
