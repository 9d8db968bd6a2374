package testhelper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/medkit/internal/domain"
)

// nextUserID hands out Telegram-like ids that do not collide across tests
// sharing one database.
var nextUserID atomic.Int64

func init() {
	nextUserID.Store(time.Now().UnixNano() % 1_000_000_000 * 1000)
}

func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with a unique id and username.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	username := "user_" + uniqueSuffix()
	u := domain.User{
		ID:        nextUserID.Add(1),
		Username:  &username,
		FirstName: "Test",
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (id, username, first_name) VALUES ($1, $2, $3) RETURNING created_at`,
		u.ID, u.Username, u.FirstName,
	).Scan(&u.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return u
}

// SeedKit inserts a kit owned by ownerID.
func SeedKit(t *testing.T, pool *pgxpool.Pool, ownerID int64, name string) domain.Kit {
	t.Helper()
	ctx := context.Background()

	k := domain.Kit{Name: name}
	err := pool.QueryRow(ctx,
		`INSERT INTO kits (name) VALUES ($1) RETURNING id, created_at`, name,
	).Scan(&k.ID, &k.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedKit insert kit: %v", err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO kit_members (kit_id, user_id) VALUES ($1, $2)`, k.ID, ownerID,
	); err != nil {
		t.Fatalf("testhelper: SeedKit insert member: %v", err)
	}
	return k
}

// SeedMedicine inserts a catalog entry with a unique name prefix.
func SeedMedicine(t *testing.T, pool *pgxpool.Pool, name string, v domain.Verification) domain.Medicine {
	t.Helper()

	m := domain.Medicine{
		Name:         name + " " + uniqueSuffix(),
		Type:         domain.MedicineTypeTablets,
		Category:     domain.CategoryPainkiller,
		Verification: v,
	}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO medicines (name, type, category, flags) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		m.Name, string(m.Type), string(m.Category), v.Flags(),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedMedicine: %v", err)
	}
	return m
}
