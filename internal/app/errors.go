package app

import (
	"errors"

	"imageuploader-api/internal/media"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUserExists        = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidFileType   = media.ErrInvalidFileType
	ErrUpload            = errors.New("upload failed")
)
