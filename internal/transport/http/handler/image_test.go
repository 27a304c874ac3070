package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"imageuploader-api/internal/app"
)

func TestPartContentType(t *testing.T) {
	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")

	header := func(contentType string) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		return &multipart.FileHeader{Filename: "x", Header: h}
	}

	assert.Equal(t, "image/webp", partContentType(header("image/webp"), gif))
	assert.Equal(t, "image/png", partContentType(header("IMAGE/PNG"), gif))
	assert.Equal(t, "image/gif", partContentType(header(""), gif))
	assert.Equal(t, "image/gif", partContentType(header("application/octet-stream"), gif))
	assert.Equal(t, "text/plain", partContentType(header(""), []byte("hello")))
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{app.ErrUserExists, http.StatusConflict, `"code":"USER_EXISTS"`},
		{app.ErrUserNotFound, http.StatusNotFound, `"code":"USER_NOT_FOUND"`},
		{app.ErrInvalidCredential, http.StatusUnauthorized, `"code":"INVALID_CREDENTIALS"`},
		{app.ErrInvalidToken, http.StatusUnauthorized, `"message":"Unauthorized access"`},
		{fmt.Errorf("%w: image/x", app.ErrInvalidFileType), http.StatusBadRequest, `"code":"INVALID_TYPE"`},
		{fmt.Errorf("%w: timeout", app.ErrUpload), http.StatusBadGateway, `"code":"UPLOAD_FAILED"`},
		{errors.New("db gone"), http.StatusInternalServerError, `"message":"Something went wrong"`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		writeServiceError(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), tc.code, tc.err.Error())
	}
}
