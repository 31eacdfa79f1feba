package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
	"userhub/internal/repository"
	"userhub/internal/service"
	"userhub/internal/storage"
)

// AdminHandler handles the admin user CRUD surface.
type AdminHandler struct {
	users  service.UserService
	images *storage.ImageStore
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users service.UserService, images *storage.ImageStore) *AdminHandler {
	return &AdminHandler{users: users, images: images}
}

// CreateUserRequest represents the multipart form of an admin user create.
type CreateUserRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	FullName string `form:"fullName"`
	Role     string `form:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserRequest represents the multipart form of an admin user update.
// Empty fields are treated as absent.
type UpdateUserRequest struct {
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	FullName string `form:"fullName"`
	Role     string `form:"role" validate:"omitempty,oneof=user admin"`
}

// CreateUser godoc
// @Summary Create a user with an optional role and image
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param fullName formData string false "Full name"
// @Param role formData string false "Role (user or admin)"
// @Param image formData file false "Profile image"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Security BearerAuth
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	imageRef, err := saveUploadedImage(c, h.images)
	if err != nil {
		return err
	}

	input := service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if imageRef != "" {
		input.Image = &imageRef
	}

	user, err := h.users.Register(c.Request().Context(), input)
	if err != nil {
		if imageRef != "" {
			_ = h.images.Delete(imageRef)
		}
		return err
	}

	return c.JSON(http.StatusCreated, apperrors.Envelope{
		Success: true,
		Message: "User created successfully",
		Data:    user,
	})
}

// ListUsers godoc
// @Summary List users with optional paging and search
// @Tags admin
// @Produce json
// @Param page query int false "1-based page"
// @Param size query int false "Page size, max 100"
// @Param search query string false "Substring match on name or email"
// @Success 200 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	opts := repository.ListOptions{
		Page:   intQuery(c, "page"),
		Size:   intQuery(c, "size"),
		Search: c.QueryParam("search"),
	}

	users, err := h.users.ListUsers(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// GetUser godoc
// @Summary Get a user by id
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// UpdateUser godoc
// @Summary Update any field of a user
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param id path string true "User ID"
// @Param email formData string false "New email"
// @Param password formData string false "New password"
// @Param fullName formData string false "New full name"
// @Param role formData string false "New role (user or admin)"
// @Param image formData file false "Profile image"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := service.UserPatch{}
	if req.Email != "" {
		patch.Email = &req.Email
	}
	if req.Password != "" {
		patch.Password = &req.Password
	}
	if req.FullName != "" {
		patch.FullName = &req.FullName
	}
	if req.Role != "" {
		patch.Role = &req.Role
	}

	imageRef, err := saveUploadedImage(c, h.images)
	if err != nil {
		return err
	}
	if imageRef != "" {
		patch.Image = &imageRef
	}

	user, err := h.users.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		if imageRef != "" {
			_ = h.images.Delete(imageRef)
		}
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "User deleted successfully",
	})
}

func intQuery(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
