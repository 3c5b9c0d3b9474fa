package integration

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and
// the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SetupTestRedis starts a Redis container and returns a connected client.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return client
}

// Seeded catalogue. P001 carries a 10% promotion; the others sell at list price.
const (
	shirtID      = "P001"
	shirtVariant = "P001-WHT-M"
	shirtPrice   = int64(129000)
	shirtStock   = 25

	trousersID      = "P002"
	trousersVariant = "P002-NVY-32"
	trousersPrice   = int64(189000)
	trousersStock   = 4

	toteID      = "P003"
	toteVariant = "P003-NAT"
	totePrice   = int64(45000)
	toteStock   = 60
)

// SeedCatalog inserts test products, variants and one active promotion.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id, name string
	}{
		{shirtID, "Linen Shirt"},
		{trousersID, "Chino Trousers"},
		{toteID, "Canvas Tote"},
	}
	for _, p := range products {
		if _, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, category_id) VALUES ($1, $2, 'test')",
			p.id, p.name,
		); err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}

	variants := []struct {
		id, productID string
		price         int64
		stock         int
	}{
		{shirtVariant, shirtID, shirtPrice, shirtStock},
		{trousersVariant, trousersID, trousersPrice, trousersStock},
		{toteVariant, toteID, totePrice, toteStock},
	}
	for _, v := range variants {
		if _, err := pool.Exec(ctx,
			"INSERT INTO variants (id, product_id, price, stock) VALUES ($1, $2, $3, $4)",
			v.id, v.productID, v.price, v.stock,
		); err != nil {
			t.Fatalf("failed to seed variant %s: %v", v.id, err)
		}
	}

	now := time.Now()
	if _, err := pool.Exec(ctx,
		`INSERT INTO promotions (id, name, status, starts_at, ends_at, percent, all_products, product_ids)
		 VALUES ('promo-shirts', 'Shirt week', 'ACTIVE', $1, $2, 10, FALSE, $3)`,
		now.Add(-time.Hour), now.Add(24*time.Hour), []string{shirtID},
	); err != nil {
		t.Fatalf("failed to seed promotion: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "promotions", "variants", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// WriteVoucherFile writes a gzipped voucher file into a temp dir and
// returns its path.
func WriteVoucherFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vouchers.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create voucher file: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(gz, line); err != nil {
			t.Fatalf("failed to write voucher line: %v", err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close voucher file: %v", err)
	}

	return path
}
