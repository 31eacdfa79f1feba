package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/service"
	"userhub/internal/storage"
)

// AuthHandler handles registration, login and profile updates.
type AuthHandler struct {
	users  service.UserService
	images *storage.ImageStore
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users service.UserService, images *storage.ImageStore) *AuthHandler {
	return &AuthHandler{users: users, images: images}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents the multipart form fields of a profile
// update. Empty fields are treated as absent.
type UpdateProfileRequest struct {
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	FullName string `form:"fullName"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, apperrors.Envelope{
		Success: true,
		Message: "User created",
		Data:    user,
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "Login successful",
		Data:    user,
		Token:   token,
	})
}

// UpdateProfile godoc
// @Summary Update own profile, admins may update any
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param id path string true "User ID"
// @Param email formData string false "New email"
// @Param password formData string false "New password"
// @Param fullName formData string false "New full name"
// @Param image formData file false "Profile image"
// @Success 200 {object} errors.Envelope
// @Failure 400 {object} errors.Envelope
// @Failure 401 {object} errors.Envelope
// @Failure 403 {object} errors.Envelope
// @Failure 404 {object} errors.Envelope
// @Security BearerAuth
// @Router /auth/{id} [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	// Only the owner or an admin may touch a profile.
	if claims.UserID != id.String() && claims.Role != model.RoleAdmin {
		return fmt.Errorf("%w: cannot update another user's profile", apperrors.ErrForbidden)
	}

	var req UpdateProfileRequest
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

	imageRef, err := saveUploadedImage(c, h.images)
	if err != nil {
		return err
	}
	if imageRef != "" {
		patch.Image = &imageRef
	}

	user, err := h.users.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		// Never leave an orphaned upload behind a failed update.
		if imageRef != "" {
			_ = h.images.Delete(imageRef)
		}
		return err
	}

	return c.JSON(http.StatusOK, apperrors.Envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// saveUploadedImage stores the optional "image" form file and returns its
// reference, or "" when the request carries no file.
func saveUploadedImage(c echo.Context, images *storage.ImageStore) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// No file field present; multipart is optional on these routes.
		return "", nil
	}
	ref, err := images.Save(fh)
	if err != nil {
		return "", err
	}
	return ref, nil
}
