package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/service"
)

func TestAdminHandler_CreateUser(t *testing.T) {
	e := newTestEcho()

	t.Run("created with explicit role", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("Register", mock.Anything, service.RegisterInput{
			Email:    "b@x.com",
			Password: "secret1",
			FullName: "Bob",
			Role:     model.RoleAdmin,
		}).Return(&model.User{Email: "b@x.com", Role: model.RoleAdmin}, nil)

		h := NewAdminHandler(mockSvc, testImageStore(t))
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users",
			strings.NewReader("email=b@x.com&password=secret1&fullName=Bob&role=admin"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()

		assert.NoError(t, h.CreateUser(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		h := NewAdminHandler(new(MockUserService), testImageStore(t))
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users",
			strings.NewReader("email=b@x.com&password=secret1&role=superuser"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		rec := httptest.NewRecorder()

		err := h.CreateUser(e.NewContext(req, rec))
		var he *echo.HTTPError
		assert.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestAdminHandler_ListUsers(t *testing.T) {
	e := newTestEcho()

	mockSvc := new(MockUserService)
	mockSvc.On("ListUsers", mock.Anything, repository.ListOptions{Page: 3, Size: 10, Search: "bob"}).
		Return([]model.User{{Email: "bob@x.com"}}, nil)

	h := NewAdminHandler(mockSvc, testImageStore(t))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users?page=3&size=10&search=bob", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, h.ListUsers(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp apperrors.Envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	mockSvc.AssertExpectations(t)
}

func TestAdminHandler_GetUser_InvalidID(t *testing.T) {
	e := newTestEcho()
	h := NewAdminHandler(new(MockUserService), testImageStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/not-a-uuid", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetUser(c)
	var he *echo.HTTPError
	assert.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	e := newTestEcho()
	id := uuid.New()

	t.Run("first delete succeeds", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("DeleteUser", mock.Anything, id).Return(nil)

		h := NewAdminHandler(mockSvc, testImageStore(t))
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+id.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		assert.NoError(t, h.DeleteUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		mockSvc := new(MockUserService)
		mockSvc.On("DeleteUser", mock.Anything, id).Return(apperrors.ErrUserNotFound)

		h := NewAdminHandler(mockSvc, testImageStore(t))
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+id.String(), nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		assert.ErrorIs(t, h.DeleteUser(c), apperrors.ErrUserNotFound)
	})
}
