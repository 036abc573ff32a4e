package postgres

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/cwrk-planet/practice-service/internal/pg"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	testPool *pgxpool.Pool
	// причина, по которой база недоступна; тесты с базой тогда пропускаются
	skipReason string
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		skipReason = "postgres tests skipped in -short mode"
		os.Exit(m.Run())
	}

	ctx := context.Background()

	pgC, err := startPostgres(ctx)
	if err != nil {
		skipReason = fmt.Sprintf("postgres container unavailable: %v", err)
		os.Exit(m.Run())
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = dumpContainerLogs(ctx, pgC)
		panic(fmt.Errorf("connection string: %w", err))
	}

	testPool, err = pg.NewPool(ctx, pg.Config{DSN: dsn, MaxConns: 10, ApplicationName: "practice-service-test"})
	if err != nil {
		_ = dumpContainerLogs(ctx, pgC)
		panic(fmt.Errorf("pool: %w", err))
	}

	if err := Migrate(ctx, testPool); err != nil {
		_ = dumpContainerLogs(ctx, pgC)
		panic(fmt.Errorf("migrate: %w", err))
	}

	code := m.Run()

	testPool.Close()
	_ = pgC.Terminate(ctx)

	os.Exit(code)
}

// без докера testcontainers может и паниковать, поэтому recover
func startPostgres(ctx context.Context) (c *tcpostgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	return tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
}

func dumpContainerLogs(ctx context.Context, c *tcpostgres.PostgresContainer) error {
	r, err := c.Logs(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	b, _ := io.ReadAll(r)
	fmt.Printf("\n--- postgres container logs ---\n%s\n--- end logs ---\n", string(b))
	return nil
}

// newTestStore отдаёт Store над чистой базой.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testPool == nil {
		t.Skip(skipReason)
	}

	_, err := testPool.Exec(context.Background(), `
		TRUNCATE TABLE
			session_rooms,
			session_parameters,
			sessions,
			techniques,
			room_members,
			rooms,
			users
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewStore(testPool)
}
