package practitioner

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/service/practitioner"
)

type Handler struct {
	service *practitioner.Service
}

func NewHandler(service *practitioner.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/practitioners/modules", h.NearbyModules)
	r.GET("/practitioners/:id", h.Get)
}

// NearbyModules returns the browse view of practitioners around the given
// coordinates.
func (h *Handler) NearbyModules(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid lng"})
		return
	}

	modules, err := h.service.NearbyModules(c.Request.Context(), lat, lng)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": modules})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid practitioner ID"})
		return
	}

	practitioner, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": practitioner})
}
