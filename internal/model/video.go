package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput is returned when a required field of a VideoInput is empty
var ErrInvalidInput = errors.New("invalid input")

// Video represents a catalogued reference to an externally hosted video
type Video struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	Duration  string    `gorm:"column:time;not null" json:"duration"`
	Category  *string   `gorm:"column:category" json:"category"`
	Views     int64     `gorm:"column:views" json:"views"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for Video
func (Video) TableName() string {
	return "youtube_videos"
}

// CategoryOrEmpty returns the category, or "" when it is absent
func (v *Video) CategoryOrEmpty() string {
	if v.Category == nil {
		return ""
	}
	return *v.Category
}

// VideoInput holds the user-editable fields of a video.
// Category is optional; nil means absent, which is distinct from "".
type VideoInput struct {
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Duration string  `json:"duration"`
	Category *string `json:"category"`
}

// Validate checks that title, url and duration are non-empty
func (in *VideoInput) Validate() error {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.URL == "" {
		missing = append(missing, "url")
	}
	if in.Duration == "" {
		missing = append(missing, "duration")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

// InputOf returns the editable fields of v, used to prefill an update
func InputOf(v *Video) VideoInput {
	in := VideoInput{
		Title:    v.Title,
		URL:      v.URL,
		Duration: v.Duration,
	}
	if v.Category != nil {
		c := *v.Category
		in.Category = &c
	}
	return in
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
