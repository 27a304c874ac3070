package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNoFile             = "NO_FILE"
	CodeInvalidType        = "INVALID_TYPE"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeUserExists         = "USER_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeInternalServer     = "INTERNAL_SERVER_ERROR"
)

const (
	MessageUnauthorized = "Unauthorized access"
	MessageInternal     = "Something went wrong"
)

type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
}

type DataBody struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
}

type MessageBody struct {
	Message string `json:"message"`
}

type TokenBody struct {
	Token string `json:"token"`
}

// Data writes a 200 envelope carrying data.
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, DataBody{
		StatusCode: http.StatusOK,
		Data:       data,
	})
}

func Message(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, MessageBody{Message: message})
}

func Token(c *gin.Context, token string) {
	c.JSON(http.StatusOK, TokenBody{Token: token})
}

func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, ErrorBody{
		StatusCode: httpStatus,
		Message:    message,
		Code:       code,
	})
}

// Unauthorized is the single answer for every authentication failure.
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, MessageUnauthorized)
}

func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternalServer, MessageInternal)
}
