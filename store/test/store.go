package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hrygo/pengingat/internal/profile"
	"github.com/hrygo/pengingat/store"
	"github.com/hrygo/pengingat/store/db"
)

// NewTestingStore returns a migrated store for the driver named by DRIVER
// (default sqlite). SQLite uses a file in a per-test temp dir; postgres needs
// POSTGRES_TEST_DSN and is skipped otherwise.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	profile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(profile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	st := store.New(dbDriver, profile)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return st
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()

	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:     "dev",
		Driver:   driver,
		Timezone: "Asia/Jakarta",
	}
	switch driver {
	case "postgres":
		p.DSN = os.Getenv("POSTGRES_TEST_DSN")
		if p.DSN == "" {
			t.Skip("POSTGRES_TEST_DSN not set")
		}
	default:
		p.Data = t.TempDir()
		p.DSN = filepath.Join(p.Data, "pengingat_test.db")
	}
	return p
}

func getDriverFromEnv() string {
	if driver := os.Getenv("DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}
