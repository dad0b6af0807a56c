package pricing

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
)

type fakeRateSource struct {
	row *models.GoldRate
	err error
}

func (f *fakeRateSource) Latest(ctx context.Context) (*models.GoldRate, error) {
	return f.row, f.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "pricing-test", Level: zerolog.Disabled, Output: io.Discard})
}

func TestProviderStartsWithDefaults(t *testing.T) {
	p, err := NewProvider(&fakeRateSource{}, testLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	rate := p.Current()
	if !rate.PerGram22KT.Equal(DefaultRate22KT) || !rate.PerGram18KT.Equal(DefaultRate18KT) {
		t.Fatalf("expected default rates, got %+v", rate)
	}
}

func TestProviderRefreshUpdatesRate(t *testing.T) {
	source := &fakeRateSource{row: &models.GoldRate{Rate22KT: dec("6100"), Rate18KT: dec("4990")}}
	p, err := NewProvider(source, testLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	p.Refresh(context.Background())

	got := p.Price(decPtr("1"), dec("0"), enums.Karat22)
	if got.GoldPrice != 6100 {
		t.Fatalf("expected refreshed 22kt rate, got gold price %d", got.GoldPrice)
	}
}

func TestProviderKeepsLastKnownRateOnError(t *testing.T) {
	source := &fakeRateSource{row: &models.GoldRate{Rate22KT: dec("6100"), Rate18KT: dec("4990")}}
	p, err := NewProvider(source, testLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	p.Refresh(context.Background())

	source.row = nil
	source.err = errors.New("connection refused")
	p.Refresh(context.Background())

	rate := p.Current()
	if !rate.PerGram22KT.Equal(dec("6100")) {
		t.Fatalf("expected last known rate to survive fetch error, got %+v", rate)
	}
}

func TestProviderIgnoresMissingRow(t *testing.T) {
	p, err := NewProvider(&fakeRateSource{}, testLogger())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	p.Refresh(context.Background())

	rate := p.Current()
	if !rate.PerGram22KT.Equal(DefaultRate22KT) {
		t.Fatalf("expected defaults to remain, got %+v", rate)
	}
}
