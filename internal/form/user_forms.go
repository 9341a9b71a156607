package form

import (
	"context"
	"errors"

	apperrors "quill/internal/errors"
	"quill/internal/model"
	"quill/internal/repository"
)

// Registration collects the fields needed to create an account.
type Registration struct {
	Username        string `form:"username" json:"username" validate:"required,min=3,max=16"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

// Validate runs the field rules, then checks username and email against
// the store. The storage unique indexes remain the backstop for the
// check-then-act race under concurrent registration.
func (f *Registration) Validate(ctx context.Context, users repository.UserRepository) []FieldError {
	errs := tagErrors(f)

	if fieldClean(errs, "username") {
		if taken, err := usernameTaken(ctx, users, f.Username); err != nil {
			errs = append(errs, FieldError{Field: "username", Message: "Could not verify username."})
		} else if taken {
			errs = append(errs, FieldError{Field: "username", Message: "Username already exists"})
		}
	}
	if fieldClean(errs, "email") {
		if taken, err := emailTaken(ctx, users, f.Email); err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "Could not verify email."})
		} else if taken {
			errs = append(errs, FieldError{Field: "email", Message: "Email has already been taken"})
		}
	}
	return errs
}

// Login collects credentials.
type Login struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

// Validate runs the field rules. Whether the credentials match a user is
// decided by the authentication step, not here.
func (f *Login) Validate() []FieldError {
	return tagErrors(f)
}

// AccountUpdate collects username/email changes and an optional picture.
// PictureFilename is the client-supplied name of the uploaded file; it is
// only used for the extension check, storage names are generated.
type AccountUpdate struct {
	Username        string `form:"username" json:"username" validate:"required,min=3,max=16"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	PictureFilename string `form:"-" json:"-"`
}

// Validate runs the same rules as registration, except the uniqueness
// check is skipped when the submitted value equals the user's current one:
// a self-update must not collide with itself.
func (f *AccountUpdate) Validate(ctx context.Context, users repository.UserRepository, current *model.User) []FieldError {
	errs := tagErrors(f)

	if fieldClean(errs, "username") && f.Username != current.Username {
		if taken, err := usernameTaken(ctx, users, f.Username); err != nil {
			errs = append(errs, FieldError{Field: "username", Message: "Could not verify username."})
		} else if taken {
			errs = append(errs, FieldError{Field: "username", Message: "Username already exists"})
		}
	}
	if fieldClean(errs, "email") && f.Email != current.Email {
		if taken, err := emailTaken(ctx, users, f.Email); err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "Could not verify email."})
		} else if taken {
			errs = append(errs, FieldError{Field: "email", Message: "Email has already been taken"})
		}
	}
	if f.PictureFilename != "" && !AllowedPicture(f.PictureFilename) {
		errs = append(errs, FieldError{Field: "picture", Message: "Only png and jpg images are allowed."})
	}
	return errs
}

// ResetRequest collects the email to send a reset link to.
type ResetRequest struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// Validate requires that the email belongs to an existing account, the
// inverse of the registration check.
func (f *ResetRequest) Validate(ctx context.Context, users repository.UserRepository) []FieldError {
	errs := tagErrors(f)

	if fieldClean(errs, "email") {
		taken, err := emailTaken(ctx, users, f.Email)
		if err != nil {
			errs = append(errs, FieldError{Field: "email", Message: "Could not verify email."})
		} else if !taken {
			errs = append(errs, FieldError{Field: "email", Message: "There is no account associated with this email yet"})
		}
	}
	return errs
}

// ResetConfirm collects the replacement password.
type ResetConfirm struct {
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

// Validate runs the field rules.
func (f *ResetConfirm) Validate() []FieldError {
	return tagErrors(f)
}

func usernameTaken(ctx context.Context, users repository.UserRepository, username string) (bool, error) {
	_, err := users.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

func emailTaken(ctx context.Context, users repository.UserRepository, email string) (bool, error) {
	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}
