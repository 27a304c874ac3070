package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"imageuploader-api/internal/app"
	"imageuploader-api/internal/media"
	"imageuploader-api/internal/transport/http/middleware"
	"imageuploader-api/internal/transport/http/response"
)

// multipartOverhead is the slack allowed on top of the file ceiling for
// boundaries, part headers and small form fields.
const multipartOverhead = 64 << 10

const msgNoFile = "No file uploaded"

type ImageHandler struct {
	imageService *app.ImageService
	maxFileSize  int64
}

func NewImageHandler(imageService *app.ImageService, maxFileSize int64) *ImageHandler {
	if maxFileSize <= 0 {
		maxFileSize = media.MaxImageSize
	}
	return &ImageHandler{
		imageService: imageService,
		maxFileSize:  maxFileSize,
	}
}

// Upload stores one multipart image on the CDN and records it for user_id.
// user_id must name the authenticated user.
func (h *ImageHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		response.Internal(c)
		return
	}
	user, ok := middleware.UserFrom(c)
	if !ok || user.ID != userID {
		response.Unauthorized(c)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)
	fileHeader, err := uploadedFile(c)
	if err != nil {
		if isBodyTooLarge(err) {
			h.fileTooLarge(c)
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeNoFile, msgNoFile)
		return
	}
	if fileHeader.Size > h.maxFileSize {
		h.fileTooLarge(c)
		return
	}

	content, err := readFile(fileHeader)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to read uploaded file")
		return
	}

	contentType := partContentType(fileHeader, content)
	if !media.IsAllowedImageType(contentType) {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidType, "Invalid file type")
		return
	}

	image, err := h.imageService.Upload(c.Request.Context(), app.UploadInput{
		UserID:   userID,
		Filename: fileHeader.Filename,
		Mimetype: contentType,
		Content:  content,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Data(c, image.View())
}

// List returns the caller's images, newest first. An empty list is a
// success, whether or not the user has ever uploaded.
func (h *ImageHandler) List(c *gin.Context) {
	userID, ok := middleware.UserIDFrom(c)
	if !ok {
		response.Internal(c)
		return
	}
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID != userID {
		response.Unauthorized(c)
		return
	}

	images, err := h.imageService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Data(c, images)
}

func (h *ImageHandler) fileTooLarge(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge,
		"File too large. Maximum size is "+strconv.FormatInt(h.maxFileSize>>20, 10)+"MB")
}

// uploadedFile returns the "file" part, or the first file part of any name.
func uploadedFile(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	if files := form.File["file"]; len(files) > 0 {
		return files[0], nil
	}

	names := make([]string, 0, len(form.File))
	for name := range form.File {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if files := form.File[name]; len(files) > 0 {
			return files[0], nil
		}
	}
	return nil, http.ErrMissingFile
}

func readFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// partContentType prefers the part's declared type and sniffs the content
// only when the client sent none.
func partContentType(fileHeader *multipart.FileHeader, content []byte) string {
	declared := strings.TrimSpace(fileHeader.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return strings.ToLower(declared)
	}
	detected := mimetype.Detect(content).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
