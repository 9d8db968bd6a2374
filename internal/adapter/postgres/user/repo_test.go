package user

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/medkit/internal/domain"
)

var userCols = []string{"id", "username", "first_name", "created_at"}

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func TestRepo_GetByID(t *testing.T) {
	repo, mock := newRepo(t)
	name := "alice"
	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(1), &name, "Alice", time.Now()))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "@alice", u.DisplayName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_GetByUsername_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`WHERE lower\(username\) = lower\(\$1\)`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "@ghost")
}

func TestRepo_Upsert(t *testing.T) {
	tests := []struct {
		name    string
		created bool
	}{
		{"new user", true},
		{"known user", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			mock.ExpectQuery(`(?s)INSERT INTO users.*ON CONFLICT \(id\) DO UPDATE`).
				WithArgs(int64(1), (*string)(nil), "Alice").
				WillReturnRows(pgxmock.NewRows([]string{"created"}).AddRow(tt.created))

			created, err := repo.Upsert(context.Background(), domain.User{ID: 1, FirstName: "Alice"})
			require.NoError(t, err)
			assert.Equal(t, tt.created, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_ListIDs(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(`SELECT id FROM users ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3)))

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
