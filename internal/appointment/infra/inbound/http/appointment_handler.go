package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/agendalab/internal/appointment/application"
	"github.com/davicafu/agendalab/internal/appointment/domain"
	"github.com/davicafu/agendalab/pkg/utils"
)

// AppointmentHandler encapsula los endpoints HTTP relacionados con Appointment
type AppointmentHandler struct {
	service *application.AppointmentService
}

func NewAppointmentHandler(service *application.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// ---------------- Requests ----------------

type createAppointmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description string    `json:"description"`
}

type updateAppointmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ---------------- Handlers ----------------

// CreateAppointment endpoint POST /appointments
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateAppointment(c.Request.Context(), req.Title, req.StartTime, req.EndTime, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

// GetAppointments endpoint GET /appointments
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	dtos, err := h.service.ListAppointments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dtos)
}

// GetAppointment endpoint GET /appointments/:id
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	dto, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// UpdateAppointment endpoint PUT /appointments/:id
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateAppointment(c.Request.Context(), id, req.Title, req.StartTime, req.EndTime, req.Description, domain.Status(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// UpdateAppointmentStatus endpoint PATCH /appointments/:id/status
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	dto, err := h.service.UpdateAppointmentStatus(c.Request.Context(), id, domain.Status(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

// DeleteAppointment endpoint DELETE /appointments/:id
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ---------------- Helpers ----------------

func (h *AppointmentHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		utils.SendBadRequest(c, "invalid appointment id")
		return 0, false
	}
	return id, true
}

// respondError traduce los tipos de error del caso de uso al status HTTP.
// Cualquier error no clasificado (broker, almacenamiento) acaba como 500.
func (h *AppointmentHandler) respondError(c *gin.Context, err error) {
	var appErr *application.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case application.KindBadRequest:
			utils.SendBadRequest(c, appErr.Error())
			return
		case application.KindNotFound:
			utils.SendNotFound(c, appErr.Error())
			return
		}
	}
	utils.SendInternalServerError(c, err.Error())
}
