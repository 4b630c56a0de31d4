package startups

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"launchdir/pkg/response"
	"launchdir/pkg/slug"
)

type mockStartupService struct {
	mock.Mock
}

func (m *mockStartupService) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(Startup)
	return s, args.Error(1)
}

func (m *mockStartupService) UpdateStartup(ctx context.Context, actorUUID string, input Startup) (Startup, error) {
	args := m.Called(ctx, actorUUID, input)
	s, _ := args.Get(0).(Startup)
	return s, args.Error(1)
}

func (m *mockStartupService) SetStatus(ctx context.Context, id int64, newStatus, actorUUID string, asAdmin bool) (Startup, error) {
	args := m.Called(ctx, id, newStatus, actorUUID, asAdmin)
	s, _ := args.Get(0).(Startup)
	return s, args.Error(1)
}

func (m *mockStartupService) DeleteStartup(ctx context.Context, id int64, actorUUID string) error {
	args := m.Called(ctx, id, actorUUID)
	return args.Error(0)
}

func (m *mockStartupService) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(Startup)
	return s, args.Error(1)
}

func (m *mockStartupService) GetStartupBySlug(ctx context.Context, slugValue string) (Startup, error) {
	args := m.Called(ctx, slugValue)
	s, _ := args.Get(0).(Startup)
	return s, args.Error(1)
}

func (m *mockStartupService) ListStartups(ctx context.Context, status string, page, limit int) ([]Startup, int64, error) {
	args := m.Called(ctx, status, page, limit)
	list, _ := args.Get(0).([]Startup)
	return list, args.Get(1).(int64), args.Error(2)
}

func (m *mockStartupService) ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]Startup, error) {
	args := m.Called(ctx, ownerUUID)
	list, _ := args.Get(0).([]Startup)
	return list, args.Error(1)
}

func setupRouter(service StartupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewStartupHandler(service)
	h.RegisterRoutes(r)
	return r
}

func TestStartupHandler_CreateStartup_Success(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	expected := Startup{ID: 1, Name: "Acme & Co", Slug: "acme-and-co", OwnerUUID: "owner-1", Status: StatusPending}
	svc.On("CreateStartup", mock.Anything, mock.MatchedBy(func(input Startup) bool {
		return input.Name == "Acme & Co" && input.OwnerUUID == "owner-1"
	})).Return(expected, nil)

	reqBody := `{"name":"Acme & Co","description":"desc","owner_uuid":"owner-1"}`
	req := httptest.NewRequest(http.MethodPost, "/startups", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "startup created", resp.Message)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "acme-and-co", data["slug"])
	require.Equal(t, StatusPending, data["status"])

	svc.AssertExpectations(t)
}

func TestStartupHandler_CreateStartup_MissingOwner(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/startups", strings.NewReader(`{"name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateStartup", mock.Anything, mock.Anything)
}

func TestStartupHandler_CreateStartup_SlugExhausted(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("CreateStartup", mock.Anything, mock.Anything).Return(Startup{}, slug.ErrExhausted)

	reqBody := `{"name":"Popular Name","owner_uuid":"owner-1"}`
	req := httptest.NewRequest(http.MethodPost, "/startups", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestStartupHandler_SetStatus_OwnerRoute(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("SetStatus", mock.Anything, int64(7), StatusPending, "owner-1", false).
		Return(Startup{ID: 7, Status: StatusPending}, nil)

	reqBody := `{"status":"pending","actor_uuid":"owner-1"}`
	req := httptest.NewRequest(http.MethodPatch, "/startups/7/status", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestStartupHandler_SetStatus_AdminRoute(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("SetStatus", mock.Anything, int64(7), StatusApproved, "admin-1", true).
		Return(Startup{ID: 7, Status: StatusApproved}, nil)

	reqBody := `{"status":"approved","actor_uuid":"admin-1"}`
	req := httptest.NewRequest(http.MethodPatch, "/admin/startups/7/status", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, StatusApproved, data["status"])

	svc.AssertExpectations(t)
}

func TestStartupHandler_SetStatus_InvalidStatus(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("SetStatus", mock.Anything, int64(7), "archived", "admin-1", true).
		Return(Startup{}, ErrInvalidStatus)

	reqBody := `{"status":"archived","actor_uuid":"admin-1"}`
	req := httptest.NewRequest(http.MethodPatch, "/admin/startups/7/status", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "invalid status", resp.Message)
}

func TestStartupHandler_SetStatus_Forbidden(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("SetStatus", mock.Anything, int64(7), StatusApproved, "stranger", false).
		Return(Startup{}, ErrForbidden)

	reqBody := `{"status":"approved","actor_uuid":"stranger"}`
	req := httptest.NewRequest(http.MethodPatch, "/startups/7/status", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestStartupHandler_GetStartupBySlug_NotFound(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("GetStartupBySlug", mock.Anything, "nope").Return(Startup{}, ErrStartupNotFound)

	req := httptest.NewRequest(http.MethodGet, "/startups/slug/nope", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartupHandler_ListStartups_StatusFilterPassedThrough(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("ListStartups", mock.Anything, StatusApproved, 1, 10).Return([]Startup{{ID: 1, Status: StatusApproved}}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/startups?status=approved", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestStartupHandler_ListStartups_DefaultsToApproved(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("ListStartups", mock.Anything, StatusApproved, 1, 10).Return([]Startup{}, int64(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/startups", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestStartupHandler_ListStartups_AllBypassesFilter(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	svc.On("ListStartups", mock.Anything, "", 1, 10).Return([]Startup{}, int64(0), nil)

	req := httptest.NewRequest(http.MethodGet, "/startups?status=all", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestStartupHandler_UpdateStartup_InvalidID(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/startups/abc", strings.NewReader(`{"name":"Acme","actor_uuid":"owner-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateStartup", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartupHandler_DeleteStartup_RequiresActor(t *testing.T) {
	svc := new(mockStartupService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/startups/4", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "DeleteStartup", mock.Anything, mock.Anything, mock.Anything)
}
