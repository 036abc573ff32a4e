package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsAreGooseAnnotated(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil || len(files) == 0 {
		t.Fatalf("no embedded migrations: %v", err)
	}
	for _, f := range files {
		body, err := fs.ReadFile(migrationsFS, f)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(body), "-- +goose Up") || !strings.Contains(string(body), "-- +goose Down") {
			t.Fatalf("%s must carry goose Up/Down annotations", f)
		}
	}
}

func TestMigrate_IdempotentAndCreatesRunningIndex(t *testing.T) {
	newTestStore(t)
	ctx := context.Background()

	// TestMain уже накатил схему; повторный прогон ничего не меняет
	if err := Migrate(ctx, testPool); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var exists bool
	err := testPool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_indexes WHERE indexname = 'sessions_one_running_per_user');`,
	).Scan(&exists)
	if err != nil || !exists {
		t.Fatalf("running-session index exists = %v (%v)", exists, err)
	}
}

func TestItoa(t *testing.T) {
	cases := map[int]string{0: "0", 7: "7", 10: "10", 1234: "1234"}
	for in, want := range cases {
		if got := itoa(in); got != want {
			t.Errorf("itoa(%d) = %q, want %q", in, got, want)
		}
	}
}
