package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quill/internal/cache"
	apperrors "quill/internal/errors"
	"quill/internal/model"
	"quill/internal/repository"
)

// PostsPerPage is the listing page size.
const PostsPerPage = 5

const postCacheTTL = 5 * time.Minute

// Page is one page of a post listing, newest first.
type Page struct {
	Items      []model.Post `json:"items"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"total_pages"`
	HasNext    bool         `json:"has_next"`
	HasPrev    bool         `json:"has_prev"`
}

// PostService exposes post operations. Update and Delete enforce the
// ownership gate: only the author may mutate a post.
type PostService interface {
	Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Update(ctx context.Context, id, actorID uint, title, content string) (*model.Post, error)
	Delete(ctx context.Context, id, actorID uint) error
	HomePage(ctx context.Context, page int) (*Page, error)
	UserPage(ctx context.Context, username string, page int) (*model.User, *Page, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	cache *cache.Client
}

// NewPostService builds a PostService with repositories and cache.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, cache *cache.Client) PostService {
	return &postService{posts: posts, users: users, cache: cache}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

func (s *postService) Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error) {
	post := &model.Post{
		Title:      title,
		Content:    content,
		DatePosted: time.Now(),
		AuthorID:   authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	if data, ok := s.cache.Get(ctx, s.cacheKey(id)); ok {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(post); err == nil {
		s.cache.Set(ctx, s.cacheKey(id), payload, postCacheTTL)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id, actorID uint, title, content string) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actorID {
		return nil, apperrors.ErrForbidden
	}

	post.Title = title
	post.Content = content
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.cache.Delete(ctx, s.cacheKey(id))
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id, actorID uint) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return apperrors.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *postService) HomePage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	posts, total, err := s.posts.ListPage(ctx, page, PostsPerPage)
	if err != nil {
		return nil, err
	}
	return buildPage(posts, total, page), nil
}

func (s *postService) UserPage(ctx context.Context, username string, page int) (*model.User, *Page, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	posts, total, err := s.posts.ListByAuthorPage(ctx, user.ID, page, PostsPerPage)
	if err != nil {
		return nil, nil, err
	}
	return user, buildPage(posts, total, page), nil
}

func buildPage(posts []model.Post, total int64, page int) *Page {
	totalPages := int((total + PostsPerPage - 1) / PostsPerPage)
	return &Page{
		Items:      posts,
		Page:       page,
		PerPage:    PostsPerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
