package repositories

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebench-backend/internal/entities"
	"ebench-backend/pkg/apperrors"
)

var testPool *pgxpool.Pool

// TestMain connects to the test database when TEST_DATABASE_URL is set; the
// suite is skipped entirely otherwise. Schema comes from the migrations, run
// them against the test database first.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		os.Exit(m.Run())
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("failed to connect to the test database: %v", err)
	}
	defer testPool.Close()

	os.Exit(m.Run())
}

func requireTestPool(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
}

func cleanupTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE order_documents, order_items, orders, work_order_documents, work_order_lines, work_orders RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

func orderValues(uniqueKey string) map[string]any {
	return map[string]any{
		"order_number": "AUTO-20260828120000-001",
		"order_ver":    "V1",
		"order_unique": uniqueKey,
		"status":       "PENDING_REVIEW",
		"customer":     "ACME Press",
		"sales":        "wang",
		"order_qty":    int64(5000),
	}
}

// No database needed: the pool points at a port nothing listens on, so every
// query path fails with a connection error that must classify as transient.
func TestRepositoryUnreachableStoreIsTransient(t *testing.T) {
	pool, err := pgxpool.New(context.Background(), "postgres://nobody@127.0.0.1:1/none")
	require.NoError(t, err)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	orderRepo := NewOrderRepository(pool)
	_, _, err = orderRepo.FindIDByUnique(ctx, "AUTO-1_V1")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err), "lookup error must be transient, got %v", err)

	_, err = orderRepo.FindBySales(ctx, "wang")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err), "list error must be transient, got %v", err)

	woRepo := NewWorkOrderRepository(pool)
	_, err = woRepo.UpdateProgress(ctx, "WK-1", 50, "printing")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err), "progress error must be transient, got %v", err)
}

func TestOrderRepository_Integration_CreateAndFind(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	lines := []map[string]any{
		{"line_no": 1, "content": "cover", "brand": "UPM", "pages": int64(4)},
		{"line_no": 2, "content": "text", "thickness": "0.25mm"},
	}
	docs := []entities.AttachmentRef{{Category: "artwork", FileName: "cover.pdf", FileURL: "/uploads/artwork/cover.pdf"}}

	id, err := repo.Create(ctx, orderValues("AUTO-1_V1"), lines, docs)
	require.NoError(t, err)
	assert.NotZero(t, id)

	order, err := repo.FindByUnique(ctx, "AUTO-1_V1")
	require.NoError(t, err)
	assert.Equal(t, "ACME Press", order.Customer.String)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[0].LineNo)
	assert.Equal(t, "0.25mm", order.Items[1].Thickness.String)
	require.Len(t, order.Documents, 1)
	assert.Equal(t, "artwork", order.Documents[0].Category)
}

func TestOrderRepository_Integration_DuplicateUniqueIsConflict(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	_, err := repo.Create(ctx, orderValues("AUTO-1_V1"), nil, nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, orderValues("AUTO-1_V1"), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestOrderRepository_Integration_UpdateReplacesLines(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	id, err := repo.Create(ctx, orderValues("AUTO-1_V1"),
		[]map[string]any{{"line_no": 1, "content": "cover"}}, nil)
	require.NoError(t, err)

	newLines := []map[string]any{
		{"line_no": 1, "content": "jacket"},
		{"line_no": 2, "content": "text"},
	}
	err = repo.Update(ctx, id, map[string]any{"customer": "New Press"}, newLines, true, nil)
	require.NoError(t, err)

	order, err := repo.FindByUnique(ctx, "AUTO-1_V1")
	require.NoError(t, err)
	assert.Equal(t, "New Press", order.Customer.String)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "jacket", order.Items[0].Content.String)
}

func TestOrderRepository_Integration_UpdateWithoutLinesKeepsThem(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	id, err := repo.Create(ctx, orderValues("AUTO-1_V1"),
		[]map[string]any{{"line_no": 1, "content": "cover"}}, nil)
	require.NoError(t, err)

	err = repo.Update(ctx, id, map[string]any{"customer": "New Press"}, nil, false, nil)
	require.NoError(t, err)

	order, err := repo.FindByUnique(ctx, "AUTO-1_V1")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
}

func TestOrderRepository_Integration_UpdateStatusAndDelete(t *testing.T) {
	requireTestPool(t)
	cleanupTables(t)

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	_, err := repo.Create(ctx, orderValues("AUTO-1_V1"),
		[]map[string]any{{"line_no": 1, "content": "cover"}}, nil)
	require.NoError(t, err)

	orderNumber, err := repo.UpdateStatus(ctx, "AUTO-1_V1", map[string]any{"status": "APPROVED", "auditor": "chen"})
	require.NoError(t, err)
	assert.Equal(t, "AUTO-20260828120000-001", orderNumber)

	orderNumber, err = repo.Delete(ctx, "AUTO-1_V1")
	require.NoError(t, err)
	assert.Equal(t, "AUTO-20260828120000-001", orderNumber)

	_, err = repo.FindByUnique(ctx, "AUTO-1_V1")
	assert.True(t, apperrors.IsNotFound(err))

	// Cascade removed the children too.
	var count int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&count))
	assert.Zero(t, count)

	_, err = repo.UpdateStatus(ctx, "AUTO-1_V1", map[string]any{"status": "DRAFT"})
	assert.True(t, apperrors.IsNotFound(err))
}
