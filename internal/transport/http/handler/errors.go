package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"imageuploader-api/internal/app"
	"imageuploader-api/internal/transport/http/response"
)

// writeServiceError maps domain errors to their HTTP answer. Anything not
// listed is logged by the request logger as a 500 and hidden from the client.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrUserExists):
		response.Error(c, http.StatusConflict, response.CodeUserExists, app.ErrUserExists.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, app.ErrUserNotFound.Error())
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, app.ErrInvalidCredential.Error())
	case errors.Is(err, app.ErrInvalidToken):
		response.Unauthorized(c)
	case errors.Is(err, app.ErrInvalidFileType):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidType, "Invalid file type")
	case errors.Is(err, app.ErrUpload):
		response.Error(c, http.StatusBadGateway, response.CodeUploadFailed, "Failed to upload image")
	default:
		_ = c.Error(err)
		response.Internal(c)
	}
}
