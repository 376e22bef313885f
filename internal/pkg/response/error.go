package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code and
// machine code. Unclassified errors default to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status(), ErrorResponse{Error: appErr.Message, Code: appErr.Code()})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"})
}
