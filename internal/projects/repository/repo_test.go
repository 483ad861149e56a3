package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelance-market/market-backend/internal/projects/domain"
)

var projectCols = []string{
	"id", "title", "description", "freelancer_id", "status", "price", "tags",
	"created_at", "updated_at",
}

func projectRow(id, title, freelancerID string, status domain.Status, price float64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(projectCols).
		AddRow(id, title, "desc", freelancerID, string(status), price, "{}", now, now)
}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProjectRepository(db), mock
}

func TestProjectRepository_Create_StartsDraft(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(sqlmock.AnyArg(), "Logo design", "desc", "f-1", string(domain.StatusDraft), 150.0, sqlmock.AnyArg()).
		WillReturnRows(projectRow("p-1", "Logo design", "f-1", domain.StatusDraft, 150))

	p, err := repo.Create(context.Background(), "f-1", "Logo design", "desc", 150, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, p.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create_RequiresTitle(t *testing.T) {
	repo, _ := setupProjectRepo(t)

	_, err := repo.Create(context.Background(), "f-1", "", "desc", 150, nil)
	assert.Error(t, err)
}

func TestProjectRepository_Update_ScopedToOwner(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	newTitle := "Renamed"
	mock.ExpectQuery(`UPDATE projects`).
		WithArgs("p-1", "f-1", &newTitle, nil, nil, nil, nil).
		WillReturnRows(projectRow("p-1", "Renamed", "f-1", domain.StatusDraft, 150))

	p, err := repo.Update(context.Background(), "f-1", "p-1", UpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update_WrongOwner(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	mock.ExpectQuery(`UPDATE projects`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "intruder", "p-1", UpdateInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepository_SetStatus(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	mock.ExpectQuery(`UPDATE projects SET status`).
		WithArgs("p-1", "f-1", string(domain.StatusPublished)).
		WillReturnRows(projectRow("p-1", "Logo design", "f-1", domain.StatusPublished, 150))

	p, err := repo.SetStatus(context.Background(), "f-1", "p-1", domain.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, p.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs("p-1", "f-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(context.Background(), "f-1", "p-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestProjectRepository_Delete_Missing(t *testing.T) {
	repo, mock := setupProjectRepo(t)

	mock.ExpectExec(`DELETE FROM projects`).
		WithArgs("missing", "f-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), "f-1", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
