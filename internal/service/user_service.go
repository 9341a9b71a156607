package service

import (
	"context"
	"fmt"
	"io"

	"quill/internal/images"
	"quill/internal/model"
	"quill/internal/repository"
)

// UserService exposes account operations.
type UserService interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateAccount(ctx context.Context, userID uint, username, email string, picture io.Reader, pictureName string) (*model.User, error)
}

type userService struct {
	users  repository.UserRepository
	images *images.Store
}

// NewUserService builds a UserService with repository and picture store.
func NewUserService(users repository.UserRepository, images *images.Store) UserService {
	return &userService{users: users, images: images}
}

func (s *userService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// UpdateAccount stores a resized profile picture when one was uploaded and
// updates username and email. Uniqueness has already been validated by the
// account update form.
func (s *userService) UpdateAccount(ctx context.Context, userID uint, username, email string, picture io.Reader, pictureName string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if picture != nil {
		stored, err := s.images.SavePicture(picture, pictureName)
		if err != nil {
			return nil, fmt.Errorf("store picture: %w", err)
		}
		user.ImageFile = stored
	}

	user.Username = username
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return user, nil
}
