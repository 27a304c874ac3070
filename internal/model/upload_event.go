package model

import "time"

// UploadEvent is an append-only audit row written by the upload event worker.
type UploadEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ImageID    uint      `gorm:"not null;index" json:"image_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	URL        string    `gorm:"size:1024;not null" json:"url"`
	Size       int64     `gorm:"not null" json:"size"`
	Mimetype   string    `gorm:"size:64;not null" json:"mimetype"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
	CreatedAt  time.Time `json:"created_at"`
}
