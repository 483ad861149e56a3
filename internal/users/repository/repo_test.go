package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelance-market/market-backend/internal/users/domain"
)

var userCols = []string{
	"id", "email", "password_hash", "first_name", "last_name", "role",
	"profile_picture", "bio", "skills", "hourly_rate", "is_verified",
	"verification_code", "created_at", "updated_at",
}

func userRow(id, email string, role domain.Role) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).
		AddRow(id, email, "hashed", "Jane", "Doe", string(role),
			nil, nil, "{}", nil, false, nil, now, now)
}

func setupUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(userRow("u-1", "jane@example.com", domain.RoleClient))

	u, err := repo.Create(context.Background(), &domain.User{
		Email:        "jane@example.com",
		PasswordHash: "hashed",
		FirstName:    "Jane",
		LastName:     "Doe",
		Role:         domain.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, domain.RoleClient, u.Role)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.User{
		Email: "taken@example.com",
		Role:  domain.RoleClient,
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_ListPage(t *testing.T) {
	repo, mock := setupUserRepo(t)

	rows := sqlmock.NewRows(userCols).
		AddRow("u-2", "b@example.com", "hashed", "B", "B", "FREELANCER",
			nil, nil, "{}", nil, true, nil, time.Now(), time.Now()).
		AddRow("u-1", "a@example.com", "hashed", "A", "A", "CLIENT",
			nil, nil, "{}", nil, true, nil, time.Now(), time.Now())

	mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY created_at DESC OFFSET`).
		WithArgs(0, 10).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	items, total, err := repo.ListPage(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_MarkVerified_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkVerified(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
