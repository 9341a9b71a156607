package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"quill/internal/auth"
	apperrors "quill/internal/errors"
	"quill/internal/flash"
	"quill/internal/form"
	"quill/internal/repository"
	"quill/internal/service"
	"quill/internal/session"
)

// AuthHandler handles registration, login, logout and password reset.
type AuthHandler struct {
	authService service.AuthService
	users       repository.UserRepository
	sessions    *session.Manager
	resetSigner *auth.ResetTokenSigner
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, users repository.UserRepository, sessions *session.Manager, resetSigner *auth.ResetTokenSigner) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		users:       users,
		sessions:    sessions,
		resetSigner: resetSigner,
	}
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, "Register", echo.Map{"form": form.Registration{}})
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param confirm_password formData string true "Password confirmation"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var f form.Registration
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(c.Request().Context(), h.users); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	user, err := h.authService.Register(c.Request().Context(), f.Username, f.Email, f.Password)
	if err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, fmt.Sprintf("Your account has been created %s!", user.Username))
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, "Log In", echo.Map{"form": form.Login{}})
}

// Login godoc
// @Summary Log a user in
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param remember formData bool false "Keep the session across browser restarts"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var f form.Login
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	user, err := h.authService.Authenticate(c.Request().Context(), f.Email, f.Password)
	if err != nil {
		flash.Add(c, flash.CategoryDanger, "Account not found")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := h.sessions.Login(c, user, f.Remember); err != nil {
		return fail(err)
	}
	return c.Redirect(http.StatusSeeOther, session.SafeNext(c.QueryParam("next")))
}

// Logout clears the session and returns home.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return c.Redirect(http.StatusFound, "/home")
}

// ResetRequestPage renders the reset request form.
func (h *AuthHandler) ResetRequestPage(c echo.Context) error {
	return render(c, "Reset Password", echo.Map{"form": form.ResetRequest{}})
}

// ResetRequest godoc
// @Summary Request a password reset email
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Account email"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reset_password [post]
func (h *AuthHandler) ResetRequest(c echo.Context) error {
	var f form.ResetRequest
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(c.Request().Context(), h.users); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	if err := h.authService.RequestReset(c.Request().Context(), f.Email); err != nil {
		return fail(err)
	}

	flash.Add(c, flash.CategoryInfo, "An email has been sent with instructions to reset password")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ResetConfirmPage renders the new-password form after checking the token,
// so an expired link bounces before the user types anything.
func (h *AuthHandler) ResetConfirmPage(c echo.Context) error {
	if _, err := h.resetSigner.Verify(c.Param("token")); err != nil {
		flash.Add(c, flash.CategoryWarning, "That is an invalid or expired token")
		return c.Redirect(http.StatusFound, "/reset_password")
	}
	return render(c, "Reset Password", echo.Map{"form": form.ResetConfirm{}})
}

// ResetConfirm godoc
// @Summary Reset the password using an emailed token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param token path string true "Reset token"
// @Param password formData string true "New password"
// @Param confirm_password formData string true "Password confirmation"
// @Success 303
// @Failure 422 {object} ValidationResponse
// @Router /reset_password/{token} [post]
func (h *AuthHandler) ResetConfirm(c echo.Context) error {
	var f form.ResetConfirm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if errs := f.Validate(); len(errs) > 0 {
		return rerenderForm(c, f, errs)
	}

	user, err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), f.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidToken) {
			flash.Add(c, flash.CategoryWarning, "That is an invalid or expired token")
			return c.Redirect(http.StatusSeeOther, "/reset_password")
		}
		return fail(err)
	}

	flash.Add(c, flash.CategorySuccess, fmt.Sprintf("Your password has been updated %s!", user.Username))
	return c.Redirect(http.StatusSeeOther, "/login")
}
