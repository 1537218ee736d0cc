// Package content persists users, subs, posts and comments.
package content

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/database"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

var (
	ErrUserNotFound    = apperr.NotFound("user not found")
	ErrSubNotFound     = apperr.NotFound("sub not found")
	ErrPostNotFound    = apperr.NotFound("post not found")
	ErrCommentNotFound = apperr.NotFound("comment not found")
)

// ListLimit caps listing endpoints, which are not paginated.
const ListLimit = 50

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func first(tx *gorm.DB, dest any, notFound error) error {
	err := tx.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// Users

func (s *Store) FindUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := first(s.db.WithContext(ctx).Where("id = ?", id), &user, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := first(s.db.WithContext(ctx).Where("username = ?", username), &user, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// Taken reports which of email and username already belong to a user.
func (s *Store) Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var users []models.User
	err = s.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		Find(&users).Error
	if err != nil {
		return false, false, err
	}
	for _, u := range users {
		emailTaken = emailTaken || u.Email == email
		usernameTaken = usernameTaken || u.Username == username
	}
	return emailTaken, usernameTaken, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if database.IsUniqueViolation(err) {
		return apperr.Fields(apperr.KindConflict, map[string]string{
			"username": "username or email already exists",
		})
	}
	return err
}

func (s *Store) UserPosts(ctx context.Context, userID int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(newestFirst).
		Preload("Sub").
		Preload("Votes").
		Where("user_id = ?", userID).
		Limit(ListLimit).
		Find(&posts).Error
	return posts, err
}

func (s *Store) UserComments(ctx context.Context, userID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Scopes(newestFirst).
		Preload("Post.Sub").
		Preload("Post.Votes").
		Preload("Votes").
		Where("user_id = ?", userID).
		Limit(ListLimit).
		Find(&comments).Error
	return comments, err
}

// Subs

// FindSub looks a sub up by name, ignoring case.
func (s *Store) FindSub(ctx context.Context, name string) (*models.Sub, error) {
	var sub models.Sub
	if err := first(s.db.WithContext(ctx).Where("lower(name) = lower(?)", name), &sub, ErrSubNotFound); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) FindSubWithPosts(ctx context.Context, name string) (*models.Sub, error) {
	var sub models.Sub
	tx := s.db.WithContext(ctx).
		Preload("User").
		Preload("Posts", func(db *gorm.DB) *gorm.DB {
			return newestFirst(db).Limit(ListLimit)
		}).
		Preload("Posts.User").
		Preload("Posts.Votes").
		Where("lower(name) = lower(?)", name)
	if err := first(tx, &sub, ErrSubNotFound); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) CreateSub(ctx context.Context, sub *models.Sub) error {
	err := s.db.WithContext(ctx).Create(sub).Error
	if database.IsUniqueViolation(err) {
		return apperr.Fields(apperr.KindConflict, map[string]string{"name": "sub already exists"})
	}
	return err
}

// Posts

func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(newestFirst).
		Preload("Sub").
		Preload("User").
		Preload("Votes").
		Limit(ListLimit).
		Find(&posts).Error
	return posts, err
}

func (s *Store) FindPost(ctx context.Context, identifier, slug string) (*models.Post, error) {
	return s.findPost(s.db.WithContext(ctx), identifier, slug)
}

// FindPostWithVotes loads a post together with its sub, author and votes.
func (s *Store) FindPostWithVotes(ctx context.Context, identifier, slug string) (*models.Post, error) {
	tx := s.db.WithContext(ctx).
		Preload("Sub").
		Preload("User").
		Preload("Votes")
	return s.findPost(tx, identifier, slug)
}

// FindPostThread loads a post with everything a vote response renders:
// sub, author, votes, and every comment with its author and votes.
func (s *Store) FindPostThread(ctx context.Context, identifier, slug string) (*models.Post, error) {
	tx := s.db.WithContext(ctx).
		Preload("Sub").
		Preload("User").
		Preload("Votes").
		Preload("Comments", newestFirst).
		Preload("Comments.User").
		Preload("Comments.Votes")
	post, err := s.findPost(tx, identifier, slug)
	if err != nil {
		return nil, err
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	return post, nil
}

func (s *Store) findPost(tx *gorm.DB, identifier, slug string) (*models.Post, error) {
	var post models.Post
	tx = tx.Where("identifier = ? AND slug = ?", identifier, slug)
	if err := first(tx, &post, ErrPostNotFound); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).
		Model(post).
		Select("title", "body").
		Updates(post).Error
}

// DeletePost removes a post; its comments and every vote on either cascade.
func (s *Store) DeletePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Delete(post).Error
}

// Comments

func (s *Store) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Scopes(newestFirst).
		Preload("User").
		Preload("Votes").
		Where("post_id = ?", postID).
		Find(&comments).Error
	return comments, err
}

func (s *Store) FindComment(ctx context.Context, identifier string) (*models.Comment, error) {
	var comment models.Comment
	tx := s.db.WithContext(ctx).Where("identifier = ?", identifier)
	if err := first(tx, &comment, ErrCommentNotFound); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := s.db.WithContext(ctx).Create(comment).Error
	if database.IsForeignKeyViolation(err) {
		return ErrPostNotFound
	}
	return err
}

func (s *Store) UpdateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).
		Model(comment).
		Update("body", comment.Body).Error
}

func (s *Store) DeleteComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Delete(comment).Error
}

// ReloadPost refreshes a freshly written post with its sub, author and votes.
func (s *Store) ReloadPost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).
		Preload("Sub").
		Preload("User").
		Preload("Votes").
		First(post, post.ID).Error
}

func (s *Store) ReloadComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).
		Preload("User").
		Preload("Votes").
		First(comment, comment.ID).Error
}
