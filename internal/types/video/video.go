package video

import "time"

// Video is the metadata record of one uploaded video.
type Video struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	ThumbnailURL *string   `json:"thumbnail_url" db:"thumbnail_url"`
	VideoURL     *string   `json:"video_url" db:"video_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OwnedBy reports whether userID owns the record.
func (v Video) OwnedBy(userID string) bool {
	return v.UserID != "" && v.UserID == userID
}

// Orientation classes used to namespace stored video keys.
const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
	OrientationOther     = "other"
)
