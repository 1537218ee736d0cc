package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"uniqueIndex;size:8;not null" json:"identifier"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"index;not null" json:"slug"`
	Body       string    `json:"body"`
	SubID      int       `gorm:"not null" json:"subId"`
	Sub        *Sub      `json:"sub,omitempty"`
	UserID     int       `gorm:"not null" json:"userId"`
	User       *User     `json:"user,omitempty"`
	Comments   []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments"`
	Votes      []Vote    `gorm:"constraint:OnDelete:CASCADE" json:"votes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	URL        string `gorm:"-" json:"url"`
	Score      int    `gorm:"-" json:"score"`
	ViewerVote int    `gorm:"-" json:"viewerVote"`
}

type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sub   string `json:"sub"`
}

type UpdatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.Identifier == "" {
		p.Identifier = NewIdentifier(8)
	}
	p.Slug = Slugify(p.Title)
	return nil
}

func (p *Post) AfterFind(*gorm.DB) error {
	p.URL = fmt.Sprintf("/%s/%s", p.Identifier, p.Slug)
	if p.Sub != nil {
		p.URL = "/r/" + p.Sub.Name + p.URL
	}
	return nil
}

func (p *Post) VoteRecords() []Vote { return p.Votes }
func (p *Post) SetScore(score int)  { p.Score = score }
func (p *Post) SetViewerVote(v int) { p.ViewerVote = v }
