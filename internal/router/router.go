package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/handler"
	"userhub/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	uploadsDir string,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", uploadsDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authenticated := jwtService.Middleware()

	// Profile update: self or admin, checked in the handler.
	api.PUT("/auth/:id", authHandler.UpdateProfile, authenticated)

	// Admin CRUD surface. Authentication runs before the role check, so a
	// missing or bad token is a 401 while a non-admin token is a 403.
	admin := api.Group("/admin/users", authenticated, auth.RequireRole(model.RoleAdmin))
	admin.POST("", adminHandler.CreateUser)
	admin.GET("", adminHandler.ListUsers)
	admin.GET("/:id", adminHandler.GetUser)
	admin.PUT("/:id", adminHandler.UpdateUser)
	admin.DELETE("/:id", adminHandler.DeleteUser)
}

// errorHandler translates every error into the uniform response envelope.
// Domain errors carry their own status mapping; nothing else leaks out.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprintf("%v", he.Message)
	} else {
		mapped := apperrors.MapError(err)
		status = mapped.StatusCode
		message = mapped.Message
	}

	if err := c.JSON(status, apperrors.Envelope{Success: false, Message: message}); err != nil {
		c.Logger().Error(err)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
