package handlers_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-catalog/internal/api/http"
	"github.com/spec-kit/staff-catalog/internal/api/http/handlers"
	"github.com/spec-kit/staff-catalog/internal/domain"
	"github.com/spec-kit/staff-catalog/internal/observability"
	"github.com/spec-kit/staff-catalog/internal/repository"
	"github.com/spec-kit/staff-catalog/internal/service"
)

type testEnv struct {
	app  *fiber.App
	svc  *service.StaffService
	repo repository.StaffRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, repository.NewMemoryStaffRepository())
}

func newTestEnvWithRepo(t *testing.T, repo repository.StaffRepository) *testEnv {
	t.Helper()
	metrics := observability.NewMetrics()
	svc := service.NewStaffService(service.StaffDependencies{StaffRepo: repo})
	app := httptransport.NewServer(httptransport.ServerOptions{
		AppName: "staff-catalog-test",
		Metrics: metrics,
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler("staff-catalog", "test", nil, nil, metrics),
			Staff:  handlers.NewStaffHandler(svc, zap.NewNop()),
		},
	})
	return &testEnv{app: app, svc: svc, repo: repo}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(t *testing.T, path, name string) (*http.Response, string) {
	t.Helper()
	form := url.Values{"name": {name}}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

// create submits the create form and loads the record the response redirects to.
func (e *testEnv) create(t *testing.T, name string) *domain.Staff {
	t.Helper()
	before := e.count(t)
	resp, _ := e.postForm(t, "/catalog/staff/create", name)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, before+1, e.count(t), "expected a new record for %q", name)

	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, domain.StaffURLPrefix), location)
	staff, err := e.svc.GetStaff(context.Background(), strings.TrimPrefix(location, domain.StaffURLPrefix))
	require.NoError(t, err)
	return staff
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	list, err := e.repo.List(context.Background())
	require.NoError(t, err)
	return len(list)
}

func TestListRendersRecordsSortedByName(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Sales", "Design", "Marketing"} {
		env.create(t, name)
	}

	resp, body := env.get(t, "/catalog/staffs")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Staff List")
	design := strings.Index(body, ">Design<")
	marketing := strings.Index(body, ">Marketing<")
	sales := strings.Index(body, ">Sales<")
	require.True(t, design >= 0 && marketing >= 0 && sales >= 0, body)
	assert.Less(t, design, marketing)
	assert.Less(t, marketing, sales)
}

func TestListEmpty(t *testing.T) {
	resp, body := newTestEnv(t).get(t, "/catalog/staffs")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "There are no staff.")
}

func TestRootRedirectsToListing(t *testing.T) {
	resp, _ := newTestEnv(t).get(t, "/")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, domain.StaffListURL, resp.Header.Get("Location"))
}

func TestCreateFormIsEmpty(t *testing.T) {
	resp, body := newTestEnv(t).get(t, "/catalog/staff/create")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Create Staff")
	assert.Contains(t, body, `value=""`)
	assert.NotContains(t, body, `class="errors"`)
}

func TestCreateSubmitRedirectsToNewRecord(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.postForm(t, "/catalog/staff/create", "Editorial")

	require.Equal(t, http.StatusFound, resp.StatusCode)
	list, err := env.repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Editorial", list[0].Name)
	assert.Equal(t, list[0].URL(), resp.Header.Get("Location"))
}

func TestFormCreatedNamesSurviveLaterRequests(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Editorial")
	long := "Z" + strings.Repeat("z", 32)

	for i := 0; i < 20; i++ {
		env.postForm(t, "/catalog/staff/create", long)
		env.postForm(t, "/catalog/staff/create", "x")
	}

	list, err := env.repo.List(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, staff := range list {
		names = append(names, staff.Name)
	}
	assert.Equal(t, []string{"Editorial", long}, names)
}

func TestCreateSubmitDuplicateRedirectsToExisting(t *testing.T) {
	env := newTestEnv(t)
	existing := env.create(t, "Editorial")

	resp, _ := env.postForm(t, "/catalog/staff/create", "EDITORIAL")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, existing.URL(), resp.Header.Get("Location"))
	assert.Equal(t, 1, env.count(t))
}

func TestCreateSubmitValidationRerendersForm(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postForm(t, "/catalog/staff/create", "  Ed  ")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Create Staff")
	assert.Contains(t, body, "Staff name must contain at least 3 characters")
	assert.Contains(t, body, `value="Ed"`)
	assert.Zero(t, env.count(t))
}

func TestCreateSubmitTooLong(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.postForm(t, "/catalog/staff/create", strings.Repeat("x", 101))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Staff name must not exceed 100 characters")
	assert.Zero(t, env.count(t))
}

func TestDetail(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")

	resp, body := env.get(t, staff.URL())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Staff: Editorial")
	assert.Contains(t, body, staff.URL()+"/update")
	assert.Contains(t, body, staff.URL()+"/delete")
}

func TestDetailNotFound(t *testing.T) {
	resp, body := newTestEnv(t).get(t, domain.StaffURLPrefix+uuid.NewString())

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "staff not found")
}

func TestUpdateFormPrefilled(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")

	resp, body := env.get(t, staff.URL()+"/update")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Update Staff")
	assert.Contains(t, body, `value="Editorial"`)
}

func TestUpdateFormNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		resp, _ := env.get(t, domain.StaffURLPrefix+id+"/update")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
	}
}

func TestUpdateSubmitReplacesName(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")

	resp, _ := env.postForm(t, staff.URL()+"/update", "Editorial Board")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, staff.URL(), resp.Header.Get("Location"))
	got, err := env.svc.GetStaff(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editorial Board", got.Name)
	assert.Equal(t, 1, env.count(t))
}

func TestFormUpdatedRecordSurvivesLaterRequests(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")
	other := env.create(t, "Marketing")

	resp, _ := env.postForm(t, staff.URL()+"/update", "Editorial Board")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	for i := 0; i < 20; i++ {
		env.get(t, domain.StaffURLPrefix+uuid.NewString())
		env.get(t, other.URL()+"/update")
	}

	got, err := env.svc.GetStaff(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, got.ID)
	assert.Equal(t, "Editorial Board", got.Name)

	resp, body := env.get(t, staff.URL())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Staff: Editorial Board")
}

func TestUpdateSubmitValidationRerendersForm(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")

	resp, body := env.postForm(t, staff.URL()+"/update", "Ed")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Update Staff")
	assert.Contains(t, body, "Staff name must contain at least 3 characters")
	got, err := env.svc.GetStaff(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editorial", got.Name)
}

func TestUpdateSubmitNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.postForm(t, domain.StaffURLPrefix+uuid.NewString()+"/update", "Editorial")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, env.count(t))
}

func TestDeleteFormRendersConfirmation(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")

	resp, body := env.get(t, staff.URL()+"/delete")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Delete Staff: Editorial")
	assert.Contains(t, body, `<form method="POST" action="">`)
	assert.NotContains(t, body, "staffid")
}

func TestDeleteFormMissingRedirectsToListing(t *testing.T) {
	resp, _ := newTestEnv(t).get(t, domain.StaffURLPrefix+uuid.NewString()+"/delete")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, domain.StaffListURL, resp.Header.Get("Location"))
}

func TestDeleteSubmitRemovesRecord(t *testing.T) {
	env := newTestEnv(t)
	staff := env.create(t, "Editorial")
	env.create(t, "Marketing")

	resp, _ := env.postForm(t, staff.URL()+"/delete", "")

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, domain.StaffListURL, resp.Header.Get("Location"))
	assert.Equal(t, 1, env.count(t))

	resp, _ = env.postForm(t, staff.URL()+"/delete", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, env.count(t))
}

type brokenRepo struct {
	repository.StaffRepository
}

func (brokenRepo) List(context.Context) ([]domain.Staff, error) {
	return nil, errors.New("connection refused")
}

func TestPersistenceFailureRendersErrorPage(t *testing.T) {
	env := newTestEnvWithRepo(t, brokenRepo{})

	resp, body := env.get(t, "/catalog/staffs")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "internal server error")
	assert.NotContains(t, body, "connection refused")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "<h1>404</h1>")

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set("Accept", "application/json")
	resp, body = env.do(t, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"code":"NOT_FOUND"`)
}
