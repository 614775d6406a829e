package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/config"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

type fakePredictionStore struct {
	bin   *model.WasteBin
	saved []model.WastePrediction
}

func (f *fakePredictionStore) BinByID(_ context.Context, _ model.Scope, id uuid.UUID) (*model.WasteBin, error) {
	if f.bin == nil || f.bin.ID != id {
		return nil, repository.ErrNotFound
	}
	copied := *f.bin
	return &copied, nil
}

func (f *fakePredictionStore) CreatePredictions(_ context.Context, predictions []model.WastePrediction) error {
	f.saved = append(f.saved, predictions...)
	return nil
}

type fakeStatsStore struct {
	wasteScope *model.Scope
}

func (f *fakeStatsStore) WasteStatistics(_ context.Context, scope model.Scope, _ time.Duration) (*model.WasteStatistics, error) {
	f.wasteScope = &scope
	return &model.WasteStatistics{ByZone: map[string]model.ZoneStats{}}, nil
}

func (f *fakeStatsStore) ClimateStatistics(_ context.Context) (*model.ClimateStatistics, error) {
	return &model.ClimateStatistics{ByFacilityType: map[string]model.FacilityTypeStats{}}, nil
}

func (f *fakeStatsStore) DashboardStats(_ context.Context, _ model.Scope) (*model.DashboardStats, error) {
	return &model.DashboardStats{}, nil
}

func newAnalyticsService(bins *fakePredictionStore, stats *fakeStatsStore) *AnalyticsService {
	return NewAnalyticsService(bins, stats, config.PredictionConfig{DefaultDaysAhead: 7, MaxDaysAhead: 30}, zerolog.Nop())
}

func TestPredictFillLinearExtrapolation(t *testing.T) {
	bin := &model.WasteBin{ID: uuid.New(), FillLevel: 40, FillRate: 10}
	store := &fakePredictionStore{bin: bin}
	svc := newAnalyticsService(store, &fakeStatsStore{})

	predictions, err := svc.PredictFill(context.Background(), model.Scope{}, model.PredictionInput{
		BinID:     bin.ID,
		DaysAhead: 7,
	})
	if err != nil {
		t.Fatalf("PredictFill: %v", err)
	}
	if len(predictions) != 7 {
		t.Fatalf("predictions = %d, want 7", len(predictions))
	}

	if got := predictions[0].PredictedFillLevel; got != 50 {
		t.Fatalf("day 1 level = %d, want 50", got)
	}
	if predictions[0].WillBeFull {
		t.Fatal("day 1 should not be full")
	}

	// 40 + 10*4 = 80 crosses the full threshold on day 4.
	day4 := predictions[3]
	if !day4.WillBeFull {
		t.Fatal("day 4 should be full")
	}
	if day4.RecommendedCollectionDate == nil {
		t.Fatal("full day should carry a recommended collection date")
	}
	if !day4.RecommendedCollectionDate.Equal(day4.PredictionDate) {
		t.Fatalf("recommended date = %v, want %v", day4.RecommendedCollectionDate, day4.PredictionDate)
	}

	// Saturates at 100 once 40 + 10d exceeds it.
	if got := predictions[6].PredictedFillLevel; got != 100 {
		t.Fatalf("day 7 level = %d, want 100", got)
	}

	if len(store.saved) != 7 {
		t.Fatalf("persisted predictions = %d, want 7", len(store.saved))
	}
}

func TestPredictFillClampsDays(t *testing.T) {
	bin := &model.WasteBin{ID: uuid.New(), FillLevel: 10, FillRate: 1}
	store := &fakePredictionStore{bin: bin}
	svc := newAnalyticsService(store, &fakeStatsStore{})

	predictions, err := svc.PredictFill(context.Background(), model.Scope{}, model.PredictionInput{BinID: bin.ID})
	if err != nil {
		t.Fatalf("PredictFill: %v", err)
	}
	if len(predictions) != 7 {
		t.Fatalf("default horizon = %d, want 7", len(predictions))
	}

	store.saved = nil
	predictions, err = svc.PredictFill(context.Background(), model.Scope{}, model.PredictionInput{
		BinID:     bin.ID,
		DaysAhead: 365,
	})
	if err != nil {
		t.Fatalf("PredictFill: %v", err)
	}
	if len(predictions) != 30 {
		t.Fatalf("capped horizon = %d, want 30", len(predictions))
	}
}

func TestPredictFillBinNotFound(t *testing.T) {
	svc := newAnalyticsService(&fakePredictionStore{}, &fakeStatsStore{})
	_, err := svc.PredictFill(context.Background(), model.Scope{}, model.PredictionInput{BinID: uuid.New()})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStatisticsDeniedForDrivers(t *testing.T) {
	svc := newAnalyticsService(&fakePredictionStore{}, &fakeStatsStore{})
	driver := model.Principal{UserID: uuid.New(), Role: model.RoleDriver}

	if _, err := svc.WasteStatistics(context.Background(), driver); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("waste err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.ClimateStatistics(context.Background(), driver); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("climate err = %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.DashboardStats(context.Background(), driver); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("dashboard err = %v, want ErrPermissionDenied", err)
	}
}

func TestWasteStatisticsScoping(t *testing.T) {
	stats := &fakeStatsStore{}
	svc := newAnalyticsService(&fakePredictionStore{}, stats)

	orgID := uuid.New()
	operator := model.Principal{UserID: uuid.New(), OrgID: &orgID, Role: model.RoleOperator}
	if _, err := svc.WasteStatistics(context.Background(), operator); err != nil {
		t.Fatalf("WasteStatistics: %v", err)
	}
	if stats.wasteScope == nil || stats.wasteScope.OrganizationID == nil || *stats.wasteScope.OrganizationID != orgID {
		t.Fatal("operator stats should be scoped to the operator's organization")
	}

	admin := model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	if _, err := svc.WasteStatistics(context.Background(), admin); err != nil {
		t.Fatalf("WasteStatistics: %v", err)
	}
	if !stats.wasteScope.CityWide() {
		t.Fatal("admin stats should be city-wide")
	}
}
