package booking

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/wellness-api/internal/middleware"
	"github.com/jwalitptl/wellness-api/internal/model"
	"github.com/jwalitptl/wellness-api/internal/service/availability"
	"github.com/jwalitptl/wellness-api/internal/service/booking"
)

type Handler struct {
	bookingSvc      *booking.Service
	availabilitySvc *availability.Service
}

func NewHandler(bookingSvc *booking.Service, availabilitySvc *availability.Service) *Handler {
	return &Handler{bookingSvc: bookingSvc, availabilitySvc: availabilitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	bookings := r.Group("/bookings", auth.Authenticate())
	{
		bookings.POST("", auth.RequireRole(model.RolePatient), h.Create)
		bookings.GET("", auth.RequireRole(model.RolePractitioner), h.ListPending)
		bookings.GET("/user", auth.RequireRole(model.RolePatient), h.ListForPatient)
		bookings.GET("/available-dates", h.AvailableDates)
		bookings.PUT("/:id/approve", auth.RequireRole(model.RolePractitioner), h.Approve)
		bookings.PUT("/:id/reject", auth.RequireRole(model.RolePractitioner), h.Reject)
	}
}

func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": booking})
}

// ListPending returns the practitioner's open booking requests, newest
// first.
func (h *Handler) ListPending(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	bookings, err := h.bookingSvc.PendingForPractitioner(c.Request.Context(), principal.ID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": bookings})
}

func (h *Handler) ListForPatient(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	bookings, err := h.bookingSvc.ForPatient(c.Request.Context(), principal.ID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": bookings})
}

func (h *Handler) Approve(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	var req model.ApproveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booking, err := h.bookingSvc.Approve(c.Request.Context(), principal.ID, id, &req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

func (h *Handler) Reject(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	booking, err := h.bookingSvc.Reject(c.Request.Context(), principal.ID, id)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booking})
}

// AvailableDates answers which of the given therapies still have capacity on
// which upcoming dates. therapy_ids is a comma-separated list.
func (h *Handler) AvailableDates(c *gin.Context) {
	raw := strings.Split(c.Query("therapy_ids"), ",")
	var ids []uuid.UUID
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid therapy ID"})
			return
		}
		ids = append(ids, id)
	}

	days := 0
	if d := c.Query("days"); d != "" {
		var err error
		days, err = strconv.Atoi(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid days"})
			return
		}
	}

	dates, err := h.availabilitySvc.AvailableDates(c.Request.Context(), ids, days)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": dates})
}
