package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"launchdir/pkg/response"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) CreateUser(ctx context.Context, name, email, role, password, profilePicURL string) (User, error) {
	args := m.Called(ctx, name, email, role, password, profilePicURL)
	u, _ := args.Get(0).(User)
	return u, args.Error(1)
}

func (m *mockUserService) UpdateUserByUUID(ctx context.Context, currentUUID string, u User) (User, error) {
	args := m.Called(ctx, currentUUID, u)
	out, _ := args.Get(0).(User)
	return out, args.Error(1)
}

func (m *mockUserService) DeleteUserByUUID(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *mockUserService) GetUserByUUID(ctx context.Context, uuid string) (User, error) {
	args := m.Called(ctx, uuid)
	u, _ := args.Get(0).(User)
	return u, args.Error(1)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(User)
	return u, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, page, limit int) ([]User, int64, error) {
	args := m.Called(ctx, page, limit)
	list, _ := args.Get(0).([]User)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(User)
	return u, args.Error(1)
}

func setupUserRouter(service UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(service)
	h.RegisterRoutes(r)
	return r
}

func TestUserHandler_CreateUser_Success(t *testing.T) {
	svc := new(mockUserService)
	r := setupUserRouter(svc)

	expected := User{ID: 1, Name: "Alice", Email: "alice@example.com", Role: RoleFounder, UUID: "uuid-1"}
	svc.On("CreateUser", mock.Anything, "Alice", "alice@example.com", RoleFounder, "secret", "").Return(expected, nil)

	reqBody := `{"name":"Alice","email":"alice@example.com","role":"founder","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "user created", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Alice", data["name"])
	require.Equal(t, "uuid-1", data["uuid"])

	svc.AssertExpectations(t)
}

func TestUserHandler_CreateUser_InvalidEmail(t *testing.T) {
	svc := new(mockUserService)
	r := setupUserRouter(svc)

	reqBody := `{"name":"Alice","email":"not-an-email","role":"founder","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	svc := new(mockUserService)
	r := setupUserRouter(svc)

	svc.On("GetUserByUUID", mock.Anything, "missing").Return(User{}, ErrUserNotFound)

	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "user not found", resp.Message)
}

func TestUserHandler_Login_Unauthorized(t *testing.T) {
	svc := new(mockUserService)
	r := setupUserRouter(svc)

	svc.On("Login", mock.Anything, "bob@example.com", "wrong").Return(User{}, errors.New("invalid credentials"))

	reqBody := `{"email":"bob@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
