package model

import "time"

// Image is the metadata of a file stored on the CDN. URL is written once on
// creation and never updated.
type Image struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_images_user_created,priority:1" json:"user_id"`
	URL          string    `gorm:"size:1024;not null" json:"url"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	Size         int64     `gorm:"not null" json:"size"`
	Mimetype     string    `gorm:"size:64;not null" json:"mimetype"`
	CreatedAt    time.Time `gorm:"index:idx_images_user_created,priority:2" json:"created_at"`
}

// ImageView is the public projection returned by the image endpoints.
type ImageView struct {
	ID           uint      `json:"id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	Mimetype     string    `json:"mimetype"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i Image) View() ImageView {
	return ImageView{
		ID:           i.ID,
		URL:          i.URL,
		OriginalName: i.OriginalName,
		Size:         i.Size,
		Mimetype:     i.Mimetype,
		CreatedAt:    i.CreatedAt,
	}
}
