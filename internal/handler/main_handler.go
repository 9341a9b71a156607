package handler

import (
	"github.com/labstack/echo/v4"

	"quill/internal/service"
)

// MainHandler handles the home and about pages.
type MainHandler struct {
	postService service.PostService
}

// NewMainHandler creates a new main handler.
func NewMainHandler(postService service.PostService) *MainHandler {
	return &MainHandler{postService: postService}
}

// Home godoc
// @Summary Paginated post listing, newest first
// @Tags main
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} map[string]interface{}
// @Router /home [get]
func (h *MainHandler) Home(c echo.Context) error {
	page, err := h.postService.HomePage(c.Request().Context(), pageParam(c))
	if err != nil {
		return fail(err)
	}
	return render(c, "Home", echo.Map{"posts": newPageView(page)})
}

// About renders the about page.
func (h *MainHandler) About(c echo.Context) error {
	return render(c, "About", echo.Map{})
}
