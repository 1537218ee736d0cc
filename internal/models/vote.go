package models

import "time"

// Vote is one user's current stance on exactly one post or comment.
// Only -1 and 1 are ever stored; clearing a vote deletes the row.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index:idx_votes_user_post,unique;index:idx_votes_user_comment,unique" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PostID    *int      `gorm:"index:idx_votes_user_post,unique;check:chk_votes_single_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"postId,omitempty"`
	CommentID *int      `gorm:"index:idx_votes_user_comment,unique" json:"commentId,omitempty"`
	Value     int       `gorm:"not null;check:chk_votes_value,value IN (-1, 1)" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
