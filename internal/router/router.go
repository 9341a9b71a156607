package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"quill/internal/config"
	"quill/internal/handler"
	"quill/internal/metrics"
	"quill/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *session.Manager,
	mainHandler *handler.MainHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(sessions.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded profile pictures.
	e.Static("/static/headshots", cfg.UploadDir)

	// Public pages
	e.GET("/", mainHandler.Home)
	e.GET("/home", mainHandler.Home)
	e.GET("/about", mainHandler.About)
	e.GET("/post/:id", postHandler.ViewPost)
	e.GET("/user/:username/posts", userHandler.UserPosts)
	e.GET("/logout", authHandler.Logout)

	// Pages only shown to anonymous visitors; logged-in users go home.
	anon := e.Group("", sessions.RequireAnonymous())
	anon.GET("/register", authHandler.RegisterPage)
	anon.POST("/register", authHandler.Register)
	anon.GET("/login", authHandler.LoginPage)
	anon.POST("/login", authHandler.Login)
	anon.GET("/reset_password", authHandler.ResetRequestPage)
	anon.POST("/reset_password", authHandler.ResetRequest)
	anon.GET("/reset_password/:token", authHandler.ResetConfirmPage)
	anon.POST("/reset_password/:token", authHandler.ResetConfirm)

	// Protected routes: the session cookie must hold a valid session token
	// and the resolved identity must not have been logged out. The gate
	// validates through the session parser so tokens minted for other flows
	// with the same secret do not pass. Failures redirect to the login page
	// with the requested path preserved.
	protected := e.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + session.CookieName,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return sessions.ParseToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusFound, session.LoginRedirectURL(c.Request().URL.Path))
		},
	}), sessions.RequireAuth())

	protected.GET("/account", userHandler.AccountPage)
	protected.POST("/account", userHandler.AccountUpdate)
	protected.GET("/post/new", postHandler.NewPostPage)
	protected.POST("/post/new", postHandler.CreatePost)
	protected.GET("/post/:id/update", postHandler.UpdatePostPage)
	protected.POST("/post/:id/update", postHandler.UpdatePost)
	protected.POST("/post/:id/delete", postHandler.DeletePost)
}
