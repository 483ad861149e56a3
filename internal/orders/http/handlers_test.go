package http

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelance-market/market-backend/internal/auth"
	"github.com/freelance-market/market-backend/internal/events"
	"github.com/freelance-market/market-backend/internal/orders/domain"
	"github.com/freelance-market/market-backend/internal/orders/repository"
	"github.com/freelance-market/market-backend/internal/orders/service"
	projectsdomain "github.com/freelance-market/market-backend/internal/projects/domain"
	usersdomain "github.com/freelance-market/market-backend/internal/users/domain"
)

type stubProjects struct {
	project *projectsdomain.Project
	err     error
}

func (s *stubProjects) GetByID(ctx context.Context, id string) (*projectsdomain.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.project, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic string, ev events.Event) error { return nil }

var orderCols = []string{
	"id", "project_id", "client_id", "status", "total_amount",
	"requirements", "delivery_date", "created_at", "updated_at",
}

func orderRow(id string, status domain.Status) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).
		AddRow(id, "p-1", "c-1", string(status), 150.0, nil, nil, now, now)
}

// asUser injects the identity JWTAuthMiddleware would have extracted.
func asUser(id string, role usersdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.CtxUserID, id)
		c.Set(auth.CtxUserEmail, id+"@example.com")
		c.Set(auth.CtxUserRole, string(role))
		c.Next()
	}
}

func setupOrdersRouter(t *testing.T, projects *stubProjects, id string, role usersdomain.Role) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.NewOrderService(repository.NewOrderRepository(db), projects, nopPublisher{})

	r := gin.New()
	group := r.Group("/orders")
	group.Use(asUser(id, role))
	New(svc).Register(group)

	return r, mock
}

func TestOrdersHandler_Create(t *testing.T) {
	projects := &stubProjects{project: &projectsdomain.Project{
		ID: "p-1", Title: "Logo design", FreelancerID: "f-1", Price: 150,
	}}
	r, mock := setupOrdersRouter(t, projects, "c-1", usersdomain.RoleClient)

	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(orderRow("o-1", domain.StatusPending))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"project_id":"p-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"PENDING"`)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersHandler_Create_MissingBody(t *testing.T) {
	r, _ := setupOrdersRouter(t, &stubProjects{}, "c-1", usersdomain.RoleClient)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrdersHandler_Create_UnknownProject(t *testing.T) {
	projects := &stubProjects{err: projectsdomain.ErrNotFound}
	r, _ := setupOrdersRouter(t, projects, "c-1", usersdomain.RoleClient)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"project_id":"ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrdersHandler_Create_FreelancerForbidden(t *testing.T) {
	r, _ := setupOrdersRouter(t, &stubProjects{}, "f-1", usersdomain.RoleFreelancer)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(`{"project_id":"p-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestOrdersHandler_Accept(t *testing.T) {
	projects := &stubProjects{project: &projectsdomain.Project{
		ID: "p-1", Title: "Logo design", FreelancerID: "f-1", Price: 150,
	}}
	r, mock := setupOrdersRouter(t, projects, "f-1", usersdomain.RoleFreelancer)

	mock.ExpectQuery(`UPDATE orders`).
		WithArgs("o-1", string(domain.StatusAccepted)).
		WillReturnRows(orderRow("o-1", domain.StatusAccepted))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders/o-1/accept", nil)
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ACCEPTED"`)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersHandler_Accept_ClientForbidden(t *testing.T) {
	r, _ := setupOrdersRouter(t, &stubProjects{}, "c-1", usersdomain.RoleClient)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/orders/o-1/accept", nil)
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestOrdersHandler_Cancel_AnyRole(t *testing.T) {
	projects := &stubProjects{project: &projectsdomain.Project{
		ID: "p-1", Title: "Logo design", FreelancerID: "f-1", Price: 150,
	}}

	for _, role := range []usersdomain.Role{usersdomain.RoleClient, usersdomain.RoleFreelancer} {
		t.Run(string(role), func(t *testing.T) {
			r, mock := setupOrdersRouter(t, projects, "u-1", role)

			mock.ExpectQuery(`UPDATE orders`).
				WithArgs("o-1", string(domain.StatusCancelled)).
				WillReturnRows(orderRow("o-1", domain.StatusCancelled))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/orders/o-1/cancel", nil)
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOrdersHandler_Get_NotFound(t *testing.T) {
	r, mock := setupOrdersRouter(t, &stubProjects{}, "c-1", usersdomain.RoleClient)

	mock.ExpectQuery(`SELECT (.+) FROM orders WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/orders/missing", nil)
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrdersHandler_Update_RejectsBadStatus(t *testing.T) {
	r, _ := setupOrdersRouter(t, &stubProjects{}, "c-1", usersdomain.RoleClient)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/orders/o-1", strings.NewReader(`{"status":"SHIPPED"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
