package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"imageuploader-api/internal/logging"
	"imageuploader-api/internal/media"
	"imageuploader-api/internal/model"
)

type ImageStore interface {
	Create(ctx context.Context, image *model.Image) error
	ListByUserID(ctx context.Context, userID uint) ([]model.ImageView, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, content []byte, mimetype string) (string, error)
}

// ImageListCache is versioned per user. Get reports the version current
// before the database read and Set writes under it, so a fill that races an
// Invalidate lands on a superseded version.
type ImageListCache interface {
	Get(ctx context.Context, userID uint) (images []model.ImageView, version int64, hit bool, err error)
	Set(ctx context.Context, userID uint, version int64, images []model.ImageView) error
	Invalidate(ctx context.Context, userID uint) error
}

type UploadEventPublisher interface {
	Publish(ctx context.Context, event model.UploadEvent) error
}

type ImageService struct {
	images    ImageStore
	uploader  MediaUploader
	listCache ImageListCache
	publisher UploadEventPublisher
	log       logging.Logger
}

type UploadInput struct {
	UserID   uint
	Filename string
	Mimetype string
	Content  []byte
}

func NewImageService(
	images ImageStore,
	uploader MediaUploader,
	listCache ImageListCache,
	publisher UploadEventPublisher,
	log logging.Logger,
) *ImageService {
	return &ImageService{
		images:    images,
		uploader:  uploader,
		listCache: listCache,
		publisher: publisher,
		log:       log.With("component", "image_service"),
	}
}

// UploadImage sends content to the CDN and returns its URL. Disallowed
// mimetypes are rejected before the CDN is contacted.
func (s *ImageService) UploadImage(ctx context.Context, content []byte, mimetype string) (string, error) {
	if !media.IsAllowedImageType(mimetype) {
		return "", fmt.Errorf("%w. Allowed types are: %s", ErrInvalidFileType, strings.Join(media.AllowedImageTypes, ", "))
	}
	url, err := s.uploader.Upload(ctx, content, mimetype)
	if err != nil {
		if errors.Is(err, ErrInvalidFileType) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if url == "" {
		return "", fmt.Errorf("%w: empty url", ErrUpload)
	}
	return url, nil
}

func (s *ImageService) Upload(ctx context.Context, input UploadInput) (*model.Image, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	url, err := s.UploadImage(ctx, input.Content, input.Mimetype)
	if err != nil {
		return nil, err
	}

	image := &model.Image{
		UserID:       input.UserID,
		URL:          url,
		OriginalName: input.Filename,
		Size:         int64(len(input.Content)),
		Mimetype:     input.Mimetype,
	}
	if err := s.images.Create(ctx, image); err != nil {
		s.log.Warn(ctx, "image record not saved, cdn object left behind",
			"url", url, "user_id", input.UserID, "error", err)
		return nil, err
	}

	if s.listCache != nil {
		if err := s.listCache.Invalidate(ctx, input.UserID); err != nil {
			s.log.Warn(ctx, "invalidate image list cache failed", "user_id", input.UserID, "error", err)
		}
	}
	if s.publisher != nil {
		event := model.UploadEvent{
			ImageID:    image.ID,
			UserID:     image.UserID,
			URL:        image.URL,
			Size:       image.Size,
			Mimetype:   image.Mimetype,
			UploadedAt: image.CreatedAt,
		}
		if event.UploadedAt.IsZero() {
			event.UploadedAt = time.Now()
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn(ctx, "publish upload event failed", "image_id", image.ID, "error", err)
		}
	}

	s.log.Info(ctx, "image uploaded", "image_id", image.ID, "user_id", image.UserID, "size", image.Size)
	return image, nil
}

// ListByUser returns the user's images newest first, reading through the cache.
func (s *ImageService) ListByUser(ctx context.Context, userID uint) ([]model.ImageView, error) {
	var version int64
	fill := false
	if s.listCache != nil {
		cached, v, hit, err := s.listCache.Get(ctx, userID)
		switch {
		case err != nil:
			s.log.Warn(ctx, "read image list cache failed", "user_id", userID, "error", err)
		case hit:
			return cached, nil
		default:
			version, fill = v, true
		}
	}

	images, err := s.images.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fill {
		if err := s.listCache.Set(ctx, userID, version, images); err != nil {
			s.log.Warn(ctx, "write image list cache failed", "user_id", userID, "error", err)
		}
	}
	return images, nil
}
