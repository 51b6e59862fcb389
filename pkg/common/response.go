package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// APIError carries an error code and message to the client
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse writes a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessResponseWithMeta writes a 200 response with data and pagination meta
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// ErrorResponse writes an error response with the given status
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Error: &APIError{Code: CodeInternal, Message: message}})
}

// AppErrorResponse writes a response derived from an AppError
func AppErrorResponse(c *gin.Context, err *AppError) {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, APIResponse{Success: false, Error: &APIError{Code: err.Code, Message: err.Message}})
}

// HandleServiceError maps a service error onto the response writer
func HandleServiceError(c *gin.Context, err error, fallback string) {
	if appErr, ok := AsAppError(err); ok {
		AppErrorResponse(c, appErr)
		return
	}
	ErrorResponse(c, http.StatusInternalServerError, fallback)
}
