package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "quill/internal/errors"
	"quill/internal/model"
)

// PostRepository defines post persistence operations. Listing methods
// return posts newest-first together with the total row count so the
// service layer can build pagination metadata.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	ListPage(ctx context.Context, page, perPage int) ([]model.Post, int64, error)
	ListByAuthorPage(ctx context.Context, authorID uint, page, perPage int) ([]model.Post, int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListPage(ctx context.Context, page, perPage int) ([]model.Post, int64, error) {
	return listPage(r.db.WithContext(ctx).Model(&model.Post{}), page, perPage)
}

func (r *postRepository) ListByAuthorPage(ctx context.Context, authorID uint, page, perPage int) ([]model.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID)
	return listPage(query, page, perPage)
}

func listPage(query *gorm.DB, page, perPage int) ([]model.Post, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Session(&gorm.Session{}).
		Preload("Author").
		Order("date_posted DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
