package http

import "github.com/gin-gonic/gin"

func RegisterAppointmentRoutes(r *gin.Engine, handler *AppointmentHandler) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", handler.CreateAppointment)
		appointments.GET("", handler.GetAppointments)
		appointments.GET("/:id", handler.GetAppointment)
		appointments.PUT("/:id", handler.UpdateAppointment)
		appointments.PATCH("/:id/status", handler.UpdateAppointmentStatus)
		appointments.DELETE("/:id", handler.DeleteAppointment)
	}
}
