//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"

	"rewardgate/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext every seeded user logs in with.
const TestPassword = "password123"

var testPasswordHash string

func testHash(t *testing.T) string {
	t.Helper()

	if testPasswordHash == "" {
		h, err := password.HashPassword(TestPassword)
		require.NoError(t, err)
		testPasswordHash = h
	}
	return testPasswordHash
}

func CreateTestUser(t *testing.T, db DBLike, email, tier string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, tier, is_active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testHash(t), tier)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestServer(t *testing.T, db DBLike, id, name string, premiumOnly bool, payload []byte) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO servers (id, name, region, premium_only, disabled, connection_payload) VALUES ($1, $2, 'test-region', $3, false, $4) ON CONFLICT (id) DO NOTHING",
		id, name, premiumOnly, payload)
	require.NoError(t, err)
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO servers (id, name, region, premium_only, disabled, connection_payload) VALUES
		    ('srv-free', 'Free Server', 'test-region', false, false, 'free-config'::bytea),
		    ('srv-premium', 'Premium Server', 'test-region', true, false, 'premium-config'::bytea),
		    ('srv-disabled', 'Disabled Server', 'test-region', false, true, 'disabled-config'::bytea)
		ON CONFLICT (id) DO NOTHING;
	`)
	return err
}

// ResetDB truncates mutable state and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE sessions, entitlement_grants, processed_transactions, users, servers CASCADE;
	`)
	if err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
