package models

import "time"

// Sub is a named community that posts are submitted into.
type Sub struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	UserID      int       `json:"userId"`
	User        *User     `json:"user,omitempty"`
	Posts       []Post    `json:"posts,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateSubRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
