package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	SetJWTSecretForTest("test-secret")

	if err := db.ConnectSQLite(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("ConnectSQLite() error = %v", err)
	}
	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("MigrateDatabase() error = %v", err)
	}
	return db.DB
}

func seedUser(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()

	user := models.User{Username: "alice", Email: "alice@example.com", IsActive: true}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func TestIssueTokenPair(t *testing.T) {
	gdb := setupDB(t)
	user := seedUser(t, gdb)

	pair, err := IssueTokenPair(gdb, user)
	if err != nil {
		t.Fatalf("IssueTokenPair() error = %v", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("expected both tokens to be set")
	}

	if _, err := VerifyJWT(pair.Access); err != nil {
		t.Errorf("VerifyJWT() error = %v", err)
	}

	// The raw refresh token is never stored, only its hash.
	var record models.RefreshToken
	if err := gdb.First(&record).Error; err != nil {
		t.Fatalf("load refresh record: %v", err)
	}
	if record.TokenHash == pair.Refresh {
		t.Error("refresh token stored in the clear")
	}
}

func TestExchangeRefreshTokenRotation(t *testing.T) {
	gdb := setupDB(t)
	user := seedUser(t, gdb)

	pair, err := IssueTokenPair(gdb, user)
	if err != nil {
		t.Fatalf("IssueTokenPair() error = %v", err)
	}

	got, next, err := ExchangeRefreshToken(gdb, pair.Refresh)
	if err != nil {
		t.Fatalf("ExchangeRefreshToken() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("user = %d, want %d", got.ID, user.ID)
	}
	if next.Refresh == pair.Refresh {
		t.Error("refresh token was not rotated")
	}

	// The old token is single-use.
	if _, _, err := ExchangeRefreshToken(gdb, pair.Refresh); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("replay error = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestExchangeRefreshTokenRejections(t *testing.T) {
	gdb := setupDB(t)
	user := seedUser(t, gdb)

	t.Run("unknown token", func(t *testing.T) {
		if _, _, err := ExchangeRefreshToken(gdb, "deadbeef"); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("error = %v, want ErrInvalidRefreshToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		pair, err := IssueTokenPair(gdb, user)
		if err != nil {
			t.Fatalf("IssueTokenPair() error = %v", err)
		}
		gdb.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Update("expires_at", time.Now().Add(-time.Hour))

		if _, _, err := ExchangeRefreshToken(gdb, pair.Refresh); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("error = %v, want ErrInvalidRefreshToken", err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		pair, err := IssueTokenPair(gdb, user)
		if err != nil {
			t.Fatalf("IssueTokenPair() error = %v", err)
		}
		gdb.Model(user).Update("is_active", false)
		t.Cleanup(func() { gdb.Model(user).Update("is_active", true) })

		if _, _, err := ExchangeRefreshToken(gdb, pair.Refresh); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("error = %v, want ErrInvalidRefreshToken", err)
		}
	})
}

func TestRevokeAllRefreshTokens(t *testing.T) {
	gdb := setupDB(t)
	user := seedUser(t, gdb)

	var pairs []TokenPair
	for i := 0; i < 3; i++ {
		pair, err := IssueTokenPair(gdb, user)
		if err != nil {
			t.Fatalf("IssueTokenPair() error = %v", err)
		}
		pairs = append(pairs, pair)
	}

	if err := RevokeAllRefreshTokens(gdb, user.ID); err != nil {
		t.Fatalf("RevokeAllRefreshTokens() error = %v", err)
	}

	for i, pair := range pairs {
		if _, _, err := ExchangeRefreshToken(gdb, pair.Refresh); !errors.Is(err, ErrInvalidRefreshToken) {
			t.Errorf("token %d still usable after revoke-all", i)
		}
	}
}

func TestRevokeRefreshToken(t *testing.T) {
	gdb := setupDB(t)
	user := seedUser(t, gdb)

	pair, err := IssueTokenPair(gdb, user)
	if err != nil {
		t.Fatalf("IssueTokenPair() error = %v", err)
	}

	if err := RevokeRefreshToken(gdb, pair.Refresh); err != nil {
		t.Fatalf("RevokeRefreshToken() error = %v", err)
	}

	// Revoking twice reports the token as gone.
	if err := RevokeRefreshToken(gdb, pair.Refresh); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("second revoke error = %v, want ErrInvalidRefreshToken", err)
	}
}
