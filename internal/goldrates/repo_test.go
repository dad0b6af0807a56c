package goldrates

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:goldrates_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.GoldRate{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func TestRepositoryLatestReturnsNewestRow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	old := &models.GoldRate{Rate22KT: dec("5800"), Rate18KT: dec("4700")}
	old.CreatedAt = time.Now().Add(-time.Hour)
	if err := conn.Create(old).Error; err != nil {
		t.Fatalf("seed old rate: %v", err)
	}

	if _, err := repo.Insert(ctx, &models.GoldRate{Rate22KT: dec("6100"), Rate18KT: dec("4990")}); err != nil {
		t.Fatalf("insert rate: %v", err)
	}

	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !latest.Rate22KT.Equal(dec("6100")) {
		t.Fatalf("expected newest rate, got %s", latest.Rate22KT)
	}
}

func TestRepositoryLatestEmptyLog(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	_, err := repo.Latest(context.Background())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestRepositoryHistoryOrdersDescending(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for i, rate := range []string{"5800", "5900", "6000"} {
		row := &models.GoldRate{Rate22KT: dec(rate), Rate18KT: dec("4700")}
		row.CreatedAt = time.Now().Add(time.Duration(i-3) * time.Hour)
		if err := conn.Create(row).Error; err != nil {
			t.Fatalf("seed rate: %v", err)
		}
	}

	rows, err := repo.History(ctx, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].Rate22KT.Equal(dec("6000")) {
		t.Fatalf("expected newest first, got %s", rows[0].Rate22KT)
	}
}
