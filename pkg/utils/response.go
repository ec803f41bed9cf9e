package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProblemDetails es el cuerpo estándar de las respuestas de error.
type ProblemDetails struct {
	Status   int    `json:"status"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// SendProblem envía una respuesta de error con formato problem-details.
func SendProblem(c *gin.Context, status int, title, detail string) {
	c.JSON(status, ProblemDetails{
		Status:   status,
		Title:    title,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, detail string) {
	SendProblem(c, http.StatusBadRequest, "Bad Request", detail)
}

func SendNotFound(c *gin.Context, detail string) {
	SendProblem(c, http.StatusNotFound, "Not Found", detail)
}

func SendInternalServerError(c *gin.Context, detail string) {
	SendProblem(c, http.StatusInternalServerError, "Internal Server Error", detail)
}
