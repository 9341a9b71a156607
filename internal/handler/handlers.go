package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "quill/internal/errors"
	"quill/internal/flash"
	"quill/internal/form"
	"quill/internal/model"
	"quill/internal/service"
)

// AuthorView is the public slice of a user shown next to posts.
type AuthorView struct {
	Username  string `json:"username"`
	ImageFile string `json:"image_file"`
}

// PostView is the rendered shape of a post.
type PostView struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	DatePosted time.Time  `json:"date_posted"`
	Author     AuthorView `json:"author"`
}

// PageView is one rendered page of a post listing.
type PageView struct {
	Posts      []PostView `json:"posts"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
}

// ValidationResponse re-renders a form with its field errors attached.
type ValidationResponse struct {
	Errors []form.FieldError `json:"errors"`
	Form   interface{}       `json:"form"`
}

func newPostView(p model.Post) PostView {
	return PostView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		DatePosted: p.DatePosted,
		Author: AuthorView{
			Username:  p.Author.Username,
			ImageFile: p.Author.ImageFile,
		},
	}
}

func newPageView(pg *service.Page) PageView {
	posts := make([]PostView, 0, len(pg.Items))
	for _, p := range pg.Items {
		posts = append(posts, newPostView(p))
	}
	return PageView{
		Posts:      posts,
		Page:       pg.Page,
		PerPage:    pg.PerPage,
		Total:      pg.Total,
		TotalPages: pg.TotalPages,
		HasNext:    pg.HasNext,
		HasPrev:    pg.HasPrev,
	}
}

// render emits a page view model together with pending flash messages.
func render(c echo.Context, title string, fields echo.Map) error {
	payload := echo.Map{
		"title": title,
		"flash": flash.Pop(c),
	}
	for k, v := range fields {
		payload[k] = v
	}
	return c.JSON(http.StatusOK, payload)
}

// rerenderForm reports validation failure: the form is returned with its
// field errors so the client can re-render it.
func rerenderForm(c echo.Context, formData interface{}, errs []form.FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
		Errors: errs,
		Form:   formData,
	})
}

// fail maps a domain error onto the standardized error response.
func fail(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid post ID",
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}
