package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/pagination"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, sku string, createdAt time.Time, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           sku,
		Name:          "Ring " + sku,
		Category:      "rings",
		NetWeight:     decimal.NewFromFloat(4.5),
		GrossWeight:   decimal.NewFromFloat(5.0),
		StockQuantity: 3,
		IsActive:      active,
	}
	product.CreatedAt = createdAt
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product %s: %v", sku, err)
	}
	return product
}

func TestListPaginatesWithCursor(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		mustCreateProduct(t, conn, fmt.Sprintf("NJ-%03d", i), base.Add(time.Duration(i)*time.Minute), true)
	}

	first, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2}})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(first.Items))
	}
	if first.NextCursor == nil {
		t.Fatal("expected next cursor on first page")
	}
	if first.Items[0].SKU != "NJ-004" {
		t.Fatalf("expected newest first, got %s", first.Items[0].SKU)
	}

	second, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2, Cursor: *first.NextCursor}})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Items) != 2 || second.Items[0].SKU != "NJ-002" {
		t.Fatalf("unexpected second page %+v", second.Items)
	}

	third, err := repo.List(ctx, ListInput{Pagination: pagination.Params{Limit: 2, Cursor: *second.NextCursor}})
	if err != nil {
		t.Fatalf("list third page: %v", err)
	}
	if len(third.Items) != 1 || third.NextCursor != nil {
		t.Fatalf("expected final page of 1 with no cursor, got %d items", len(third.Items))
	}
}

func TestListHidesInactiveByDefault(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateProduct(t, conn, "NJ-ON", time.Now(), true)
	mustCreateProduct(t, conn, "NJ-OFF", time.Now(), false)

	list, err := repo.List(ctx, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].SKU != "NJ-ON" {
		t.Fatalf("expected only the active product, got %+v", list.Items)
	}

	all, err := repo.List(ctx, ListInput{Filters: ListFilters{IncludeInactive: true}})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Items) != 2 {
		t.Fatalf("expected both products for admin listing, got %d", len(all.Items))
	}
}

func TestListFiltersByCategoryAndQuery(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	ring := mustCreateProduct(t, conn, "NJ-RING", time.Now(), true)
	chain := &models.Product{
		ID:          uuid.New(),
		SKU:         "NJ-CHAIN",
		Name:        "Rope Chain",
		Category:    "chains",
		NetWeight:   decimal.NewFromFloat(8),
		GrossWeight: decimal.NewFromFloat(8.2),
		IsActive:    true,
	}
	if err := conn.Create(chain).Error; err != nil {
		t.Fatalf("create chain: %v", err)
	}

	byCategory, err := repo.List(ctx, ListInput{Filters: ListFilters{Category: "chains"}})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory.Items) != 1 || byCategory.Items[0].SKU != "NJ-CHAIN" {
		t.Fatalf("unexpected category result %+v", byCategory.Items)
	}

	byQuery, err := repo.List(ctx, ListInput{Filters: ListFilters{Query: "nj-ring"}})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if len(byQuery.Items) != 1 || byQuery.Items[0].ID != ring.ID {
		t.Fatalf("unexpected query result %+v", byQuery.Items)
	}
}

func TestCreateEnforcesUniqueSKU(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateProduct(t, conn, "NJ-DUP", time.Now(), true)

	_, err := repo.Create(ctx, &models.Product{
		ID:          uuid.New(),
		SKU:         "NJ-DUP",
		Name:        "Duplicate",
		Category:    "rings",
		NetWeight:   decimal.NewFromFloat(1),
		GrossWeight: decimal.NewFromFloat(1),
		IsActive:    true,
	})
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "NJ-STOCK", time.Now(), true)

	if err := repo.AdjustStock(ctx, product.ID, -10); err != nil {
		t.Fatalf("adjust stock: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.StockQuantity != 0 {
		t.Fatalf("expected stock clamped to 0, got %d", reloaded.StockQuantity)
	}
}
