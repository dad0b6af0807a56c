package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/internal/pricing"
	"github.com/saikganesh/navajothi-jewels-backend/internal/products"
	"github.com/saikganesh/navajothi-jewels-backend/internal/realtime"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
	err    error
}

func (r *recordingPublisher) PublishCartEvent(ctx context.Context, userID string, event realtime.Event) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) last(t *testing.T) realtime.Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		t.Fatal("no events published")
	}
	return r.events[len(r.events)-1]
}

type stubRateSource struct{}

func (stubRateSource) Latest(ctx context.Context) (*models.GoldRate, error) {
	return nil, gorm.ErrRecordNotFound
}

type cartFixture struct {
	svc       Service
	conn      *gorm.DB
	publisher *recordingPublisher
	userID    uuid.UUID
}

func newFixture(t *testing.T) *cartFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:cart_%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "cart-test", Level: zerolog.Disabled, Output: io.Discard})
	provider, err := pricing.NewProvider(stubRateSource{}, logg)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	publisher := &recordingPublisher{}
	svc, err := NewService(NewRepository(conn), products.NewRepository(conn), publisher, provider, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &cartFixture{svc: svc, conn: conn, publisher: publisher, userID: uuid.New()}
}

func (f *cartFixture) seedProduct(t *testing.T, sku string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:                     uuid.New(),
		SKU:                    sku,
		Name:                   "Ring " + sku,
		Category:               "rings",
		NetWeight:              decimal.NewFromInt(10),
		GrossWeight:            decimal.NewFromInt(10),
		MakingChargePercentage: decimal.NewFromInt(10),
		StockQuantity:          5,
		IsActive:               true,
	}
	if err := f.conn.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestAddCreatesLineAndPublishes(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-ADD")
	ctx := context.Background()

	result, err := f.svc.Add(ctx, f.userID, product.ID, 2, enums.Karat22)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Line == nil || result.Line.Quantity != 2 || result.Capped {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Event != enums.CartEventInsert {
		t.Fatalf("expected insert event, got %s", result.Event)
	}
	if event := f.publisher.last(t); event.Type != enums.CartEventInsert || *event.ProductID != product.ID {
		t.Fatalf("unexpected published event %+v", event)
	}
}

func TestAddDifferentKaratsFoldIntoOneRow(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-KARAT")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 1, enums.Karat22); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := f.svc.Add(ctx, f.userID, product.ID, 1, enums.Karat18)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	var count int64
	if err := f.conn.Model(&models.CartItem{}).Where("user_id = ?", f.userID).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row per (user, product), got %d", count)
	}
	if result.Line.Quantity != 2 {
		t.Fatalf("expected combined quantity 2, got %d", result.Line.Quantity)
	}
	if result.Line.KaratSelected != enums.Karat18 {
		t.Fatalf("karat display state should follow the latest add, got %s", result.Line.KaratSelected)
	}
}

func TestAddClampsAtCeilingAndReportsIt(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-CLAMP")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 7, enums.Karat22); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := f.svc.Add(ctx, f.userID, product.ID, 6, enums.Karat22)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if result.Line.Quantity != MaxQuantity {
		t.Fatalf("expected clamp to %d, got %d", MaxQuantity, result.Line.Quantity)
	}
	if !result.Capped {
		t.Fatal("expected capped flag so the UI can report the ceiling")
	}
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(context.Background(), f.userID, uuid.New(), 1, enums.Karat22)
	if e := pkgerrors.As(err); e == nil || e.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantityZeroDeletesLine(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-ZERO")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 3, enums.Karat22); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := f.svc.UpdateQuantity(ctx, f.userID, product.ID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if !result.Removed || result.Event != enums.CartEventDelete {
		t.Fatalf("expected delete, got %+v", result)
	}

	cart, err := f.svc.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestUpdateQuantityClamps(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-UPD")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 1, enums.Karat22); err != nil {
		t.Fatalf("add: %v", err)
	}

	result, err := f.svc.UpdateQuantity(ctx, f.userID, product.ID, 25)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if result.Line.Quantity != MaxQuantity || !result.Capped {
		t.Fatalf("expected capped clamp, got %+v", result)
	}
}

func TestRemoveMissingLine(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-MISS")

	_, err := f.svc.Remove(context.Background(), f.userID, product.ID)
	if e := pkgerrors.As(err); e == nil || e.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearPublishesClearEvent(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-CLR")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 2, enums.Karat22); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.Clear(ctx, f.userID); err != nil {
		t.Fatalf("clear: %v", err)
	}

	event := f.publisher.last(t)
	if event.Type != enums.CartEventClear || event.ProductID != nil {
		t.Fatalf("unexpected clear event %+v", event)
	}

	cart, err := f.svc.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestGetPricesLinesAndTotals(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-GET")
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.userID, product.ID, 2, enums.Karat22); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := f.svc.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Lines))
	}

	line := cart.Lines[0]
	// 10g at the 5000 default with 10% making and 3% GST.
	if line.Price.Total != 56650 {
		t.Fatalf("unexpected unit total %d", line.Price.Total)
	}
	if cart.Total != 2*56650 {
		t.Fatalf("unexpected cart total %d", cart.Total)
	}
	if line.Name != product.Name || line.StockQuantity != product.StockQuantity {
		t.Fatalf("display fields not denormalized: %+v", line)
	}
}

func TestMutationSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, "NJ-PUBF")
	f.publisher.err = errors.New("redis down")

	result, err := f.svc.Add(context.Background(), f.userID, product.ID, 1, enums.Karat22)
	if err != nil {
		t.Fatalf("add should survive publish failure, got %v", err)
	}
	if result.Line == nil {
		t.Fatal("expected persisted line")
	}
}
