package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"imageuploader-api/internal/model"
)

var imageViewColumns = []string{"id", "url", "original_name", "size", "mimetype", "created_at"}

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(ctx context.Context, image *model.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("create image failed: %w", err)
	}
	return nil
}

// ListByUserID returns the user's images newest first. A user without images
// and an unknown user both yield an empty slice.
func (r *ImageRepository) ListByUserID(ctx context.Context, userID uint) ([]model.ImageView, error) {
	images := make([]model.ImageView, 0)
	err := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Select(imageViewColumns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("list images failed: %w", err)
	}
	return images, nil
}
