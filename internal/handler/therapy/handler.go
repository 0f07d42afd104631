package therapy

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/middleware"
	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/service/therapy"
)

type Handler struct {
	service *therapy.Service
}

func NewHandler(service *therapy.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	therapies := r.Group("/therapies", auth.Authenticate(), auth.RequireRole(model.RolePractitioner))
	{
		therapies.GET("", h.List)
		therapies.POST("", h.Create)
		therapies.PUT("/:id", h.Update)
		therapies.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	therapies, err := h.service.List(c.Request.Context(), principal.ID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": therapies})
}

func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	var req model.CreateTherapyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	therapy, err := h.service.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": therapy})
}

func (h *Handler) Update(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid therapy ID"})
		return
	}

	var req model.UpdateTherapyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	therapy, err := h.service.Update(c.Request.Context(), principal.ID, id, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": therapy})
}

func (h *Handler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid therapy ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal.ID, id); err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
