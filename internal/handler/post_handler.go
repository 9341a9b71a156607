package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"quill/internal/flash"
	"quill/internal/form"
	"quill/internal/service"
	"quill/internal/session"
)

// PostHandler handles post CRUD.
type PostHandler struct {
	postService service.PostService
	sessions    *session.Manager
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService, sessions *session.Manager) *PostHandler {
	return &PostHandler{postService: postService, sessions: sessions}
}

// NewPostPage renders the empty post form.
func (h *PostHandler) NewPostPage(c echo.Context) error {
	return render(c, "New Post", echo.Map{
		"legend": "New Post",
		"form":   form.Post{},
	})
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /post/new [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var f form.Post
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	ident := h.sessions.CurrentUser(c)
	if _, err := h.postService.Create(c.Request().Context(), ident.UserID, f.Title, f.Content); err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, "Your post has been created!")
	return c.Redirect(http.StatusSeeOther, "/home")
}

// ViewPost godoc
// @Summary View a single post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [get]
func (h *PostHandler) ViewPost(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return render(c, post.Title, echo.Map{"post": newPostView(*post)})
}

// UpdatePostPage renders the post form pre-populated for editing. The
// ownership gate applies to viewing the edit form too.
func (h *PostHandler) UpdatePostPage(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}

	ident := h.sessions.CurrentUser(c)
	if post.AuthorID != ident.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	return render(c, "Update Post", echo.Map{
		"legend": "Update Post",
		"form": form.Post{
			Title:   post.Title,
			Content: post.Content,
		},
	})
}

// UpdatePost godoc
// @Summary Update a post
// @Tags posts
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post ID"
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Success 303
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} ValidationResponse
// @Router /post/{id}/update [post]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var f form.Post
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	ident := h.sessions.CurrentUser(c)
	post, err := h.postService.Update(c.Request().Context(), id, ident.UserID, f.Title, f.Content)
	if err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, "Your post has been updated!")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", post.ID))
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 303
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id}/delete [post]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	ident := h.sessions.CurrentUser(c)
	if err := h.postService.Delete(c.Request().Context(), id, ident.UserID); err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, "Your post has been deleted!")
	return c.Redirect(http.StatusSeeOther, "/home")
}
