package utils

import (
	"errors"
	"net/http"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"

	"github.com/gin-gonic/gin"
)

// Response structure standard pour les réponses API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendSuccess envoie une réponse de succès
func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError envoie une réponse d'erreur
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

// StatusFor maps an application error code onto an HTTP status.
func StatusFor(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperrors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.CodePermissionDenied:
		return http.StatusForbidden
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeFailedPrecondition:
		return http.StatusConflict
	case apperrors.CodeIntegrity, apperrors.CodeDecryption:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// SendAppError writes err as {"error", "code"}. Internal causes are not
// leaked to the client.
func SendAppError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := StatusFor(code)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	} else {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}

	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}
