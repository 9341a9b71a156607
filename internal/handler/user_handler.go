package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"quill/internal/flash"
	"quill/internal/form"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/session"
)

// UserHandler handles the account page and per-user post listings.
type UserHandler struct {
	userService service.UserService
	postService service.PostService
	users       repository.UserRepository
	sessions    *session.Manager
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, postService service.PostService, users repository.UserRepository, sessions *session.Manager) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
		users:       users,
		sessions:    sessions,
	}
}

// AccountPage renders the account form pre-populated with current data.
func (h *UserHandler) AccountPage(c echo.Context) error {
	ident := h.sessions.CurrentUser(c)
	user, err := h.userService.GetByID(c.Request().Context(), ident.UserID)
	if err != nil {
		return fail(err)
	}

	return render(c, "Account", echo.Map{
		"form": form.AccountUpdate{
			Username: user.Username,
			Email:    user.Email,
		},
		"image": "/static/headshots/" + user.ImageFile,
	})
}

// AccountUpdate godoc
// @Summary Update username, email and profile picture
// @Tags users
// @Accept mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param picture formData file false "Profile picture (png or jpg)"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /account [post]
func (h *UserHandler) AccountUpdate(c echo.Context) error {
	ident := h.sessions.CurrentUser(c)
	user, err := h.userService.GetByID(c.Request().Context(), ident.UserID)
	if err != nil {
		return fail(err)
	}

	var f form.AccountUpdate
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var picture io.Reader
	if file, err := c.FormFile("picture"); err == nil && file.Filename != "" {
		f.PictureFilename = file.Filename
		src, err := file.Open()
		if err != nil {
			return fail(err)
		}
		defer src.Close()
		picture = src
	}

	if errs := f.Validate(c.Request().Context(), h.users, user); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	if _, err := h.userService.UpdateAccount(c.Request().Context(), ident.UserID, f.Username, f.Email, picture, f.PictureFilename); err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, "Your account information has been updated!")
	return c.Redirect(http.StatusSeeOther, "/account")
}

// UserPosts godoc
// @Summary List a user's posts, paginated
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{username}/posts [get]
func (h *UserHandler) UserPosts(c echo.Context) error {
	username := c.Param("username")
	user, page, err := h.postService.UserPage(c.Request().Context(), username, pageParam(c))
	if err != nil {
		return fail(err)
	}

	return render(c, user.Username+"'s Posts", echo.Map{
		"user": AuthorView{
			Username:  user.Username,
			ImageFile: user.ImageFile,
		},
		"posts": newPageView(page),
	})
}
