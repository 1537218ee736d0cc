package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	Body       string    `gorm:"not null" json:"body"`
	UserID     int       `gorm:"not null" json:"userId"`
	User       *User     `json:"user,omitempty"`
	PostID     int       `gorm:"not null;index" json:"postId"`
	Post       *Post     `json:"post,omitempty"`
	Votes      []Vote    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Score      int `gorm:"-" json:"score"`
	ViewerVote int `gorm:"-" json:"viewerVote"`
}

type CommentRequest struct {
	Body string `json:"body"`
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.Identifier == "" {
		c.Identifier = NewIdentifier(8)
	}
	return nil
}

func (c *Comment) VoteRecords() []Vote { return c.Votes }
func (c *Comment) SetScore(score int)  { c.Score = score }
func (c *Comment) SetViewerVote(v int) { c.ViewerVote = v }
