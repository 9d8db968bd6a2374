package medicine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/medkit/internal/domain"
)

var medicineCols = []string{"id", "name", "type", "category", "dosage", "notes", "flags", "created_at"}

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func ptr[T any](v T) *T { return &v }

func TestRepo_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
		check   func(t *testing.T, m *domain.Medicine)
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(medicineCols).
					AddRow(int64(5), "Aspirin", "TABLETS", "PAINKILLER", ptr("500 mg"), nil, 3, now)
				mock.ExpectQuery(`SELECT .* FROM medicines WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnRows(rows)
			},
			check: func(t *testing.T, m *domain.Medicine) {
				assert.Equal(t, int64(5), m.ID)
				assert.Equal(t, domain.MedicineTypeTablets, m.Type)
				assert.Equal(t, domain.CategoryPainkiller, m.Category)
				assert.Equal(t, "Aspirin (500 mg)", m.DisplayName())
				assert.Equal(t, domain.VerificationVerified, m.Verification)
				assert.Nil(t, m.Notes)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM medicines`).
					WithArgs(int64(5)).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			m, err := repo.GetByID(context.Background(), 5)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.check(t, m)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_FindByKey(t *testing.T) {
	now := time.Now()

	t.Run("without dosage", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`WHERE lower\(name\) = lower\(\$1\) AND type = \$2 AND dosage IS NULL ORDER BY id ASC LIMIT 1`).
			WithArgs("Aspirin", "TABLETS").
			WillReturnRows(pgxmock.NewRows(medicineCols).
				AddRow(int64(1), "Aspirin", "TABLETS", "PAINKILLER", nil, nil, 0, now))

		m, err := repo.FindByKey(context.Background(), "Aspirin", domain.MedicineTypeTablets, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.ID)
		assert.Equal(t, domain.VerificationPending, m.Verification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with dosage", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`AND lower\(dosage\) = lower\(\$3\)`).
			WithArgs("Aspirin", "TABLETS", "500 mg").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByKey(context.Background(), "Aspirin", domain.MedicineTypeTablets, ptr("500 mg"))
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepo_List(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		filter domain.MedicineFilter
		query  string
		args   []any
	}{
		{
			name:  "no filter",
			query: `SELECT .* FROM medicines ORDER BY created_at ASC, id ASC$`,
		},
		{
			name:   "verified",
			filter: domain.MedicineFilter{Verification: ptr(domain.VerificationVerified), Limit: 10},
			query:  `WHERE flags & 1 = 1 ORDER BY created_at ASC, id ASC LIMIT 10`,
		},
		{
			name:   "pending",
			filter: domain.MedicineFilter{Verification: ptr(domain.VerificationPending)},
			query:  `WHERE flags = \$1`,
			args:   []any{0},
		},
		{
			name: "name type and category",
			filter: domain.MedicineFilter{
				NameContains: ptr("asp"),
				Type:         ptr(domain.MedicineTypeTablets),
				Category:     ptr(domain.CategoryPainkiller),
			},
			query: `WHERE name ILIKE \$1 AND type = \$2 AND category = \$3`,
			args:  []any{"%asp%", "TABLETS", "PAINKILLER"},
		},
		{
			name:   "name with wildcards",
			filter: domain.MedicineFilter{NameContains: ptr("a_b%")},
			query:  `WHERE name ILIKE \$1`,
			args:   []any{`%a\_b\%%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			rows := pgxmock.NewRows(medicineCols).
				AddRow(int64(1), "Aspirin", "TABLETS", "PAINKILLER", nil, nil, 1, now).
				AddRow(int64(2), "Aspirin Cardio", "TABLETS", "CARDIOVASCULAR", ptr("100 mg"), ptr("daily"), 3, now)
			exp := mock.ExpectQuery(tt.query)
			if tt.args != nil {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(rows)

			got, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "Aspirin", got[0].Name)
			assert.Equal(t, domain.VerificationVerified, got[0].Verification)
			assert.Equal(t, "daily", *got[1].Notes)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepo_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO medicines \(name,type,category,dosage,notes,flags,created_at\) VALUES .* RETURNING id, name`).
		WithArgs("Aspirin", "TABLETS", "PAINKILLER", ptr("500 mg"), (*string)(nil), 1, now).
		WillReturnRows(pgxmock.NewRows(medicineCols).
			AddRow(int64(9), "Aspirin", "TABLETS", "PAINKILLER", ptr("500 mg"), nil, 1, now))

	m, err := repo.Create(context.Background(), &domain.Medicine{
		Name:         "Aspirin",
		Type:         domain.MedicineTypeTablets,
		Category:     domain.CategoryPainkiller,
		Dosage:       ptr("500 mg"),
		Verification: domain.VerificationVerified,
		CreatedAt:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID)
	assert.True(t, m.IsVerified())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Update(t *testing.T) {
	now := time.Now()

	t.Run("verification only", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`UPDATE medicines SET flags = \$1 WHERE id = \$2 RETURNING`).
			WithArgs(2, int64(4)).
			WillReturnRows(pgxmock.NewRows(medicineCols).
				AddRow(int64(4), "Aspirin", "TABLETS", "PAINKILLER", nil, nil, 2, now))

		m, err := repo.Update(context.Background(), 4, domain.MedicineUpdate{
			Verification: ptr(domain.VerificationRejected),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.VerificationRejected, m.Verification)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("notes", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`UPDATE medicines SET notes = \$1 WHERE id = \$2`).
			WithArgs("after meals", int64(4)).
			WillReturnRows(pgxmock.NewRows(medicineCols).
				AddRow(int64(4), "Aspirin", "TABLETS", "PAINKILLER", nil, ptr("after meals"), 0, now))

		m, err := repo.Update(context.Background(), 4, domain.MedicineUpdate{Notes: ptr("after meals")})
		require.NoError(t, err)
		assert.Equal(t, "after meals", *m.Notes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty update reads the row", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`SELECT .* FROM medicines WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows(medicineCols).
				AddRow(int64(4), "Aspirin", "TABLETS", "PAINKILLER", nil, nil, 0, now))

		_, err := repo.Update(context.Background(), 4, domain.MedicineUpdate{})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(`UPDATE medicines`).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), 4, domain.MedicineUpdate{Name: ptr("x")})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}
