package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/config"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

// PredictionStore is the persistence surface fill forecasting needs.
type PredictionStore interface {
	BinByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.WasteBin, error)
	CreatePredictions(ctx context.Context, predictions []model.WastePrediction) error
}

// StatsStore is the read-side surface for the aggregate endpoints.
type StatsStore interface {
	WasteStatistics(ctx context.Context, scope model.Scope, window time.Duration) (*model.WasteStatistics, error)
	ClimateStatistics(ctx context.Context) (*model.ClimateStatistics, error)
	DashboardStats(ctx context.Context, scope model.Scope) (*model.DashboardStats, error)
}

const (
	// Task history window for the waste statistics reduction.
	statsWindow = 30 * 24 * time.Hour

	fullPredictionThreshold = 80
	predictionConfidence    = 85.0
	predictionDataPoints    = 30
)

// AnalyticsService produces fill forecasts and the aggregate statistics
// endpoints.
type AnalyticsService struct {
	bins  PredictionStore
	stats StatsStore
	cfg   config.PredictionConfig
	log   zerolog.Logger
}

func NewAnalyticsService(bins PredictionStore, stats StatsStore, cfg config.PredictionConfig, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{bins: bins, stats: stats, cfg: cfg, log: log}
}

// PredictFill extrapolates the bin's fill level linearly from its measured
// daily fill rate, one prediction per day. The level saturates at 100 and a
// day at or above the full threshold carries a recommended collection date.
func (s *AnalyticsService) PredictFill(ctx context.Context, scope model.Scope, in model.PredictionInput) ([]model.WastePrediction, error) {
	days := in.DaysAhead
	if days <= 0 {
		days = s.cfg.DefaultDaysAhead
	}
	if days > s.cfg.MaxDaysAhead {
		days = s.cfg.MaxDaysAhead
	}

	bin, err := s.bins.BinByID(ctx, scope, in.BinID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("bin %s: %w", in.BinID, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now().UTC()
	predictions := make([]model.WastePrediction, 0, days)
	for day := 1; day <= days; day++ {
		level := float64(bin.FillLevel) + bin.FillRate*float64(day)
		if level > 100 {
			level = 100
		}

		target := now.AddDate(0, 0, day)
		date := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)

		p := model.WastePrediction{
			ID:                 uuid.New(),
			WasteBinID:         bin.ID,
			PredictionDate:     date,
			PredictedFillLevel: int(level),
			Confidence:         predictionConfidence,
			WillBeFull:         level >= fullPredictionThreshold,
			BasedOnDataPoints:  predictionDataPoints,
			CreatedAt:          now,
		}
		if p.WillBeFull {
			collectAt := date
			p.RecommendedCollectionDate = &collectAt
		}
		predictions = append(predictions, p)
	}

	if err := s.bins.CreatePredictions(ctx, predictions); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("bin_id", bin.ID.String()).
		Int("days", days).
		Msg("fill predictions generated")
	return predictions, nil
}

func (s *AnalyticsService) WasteStatistics(ctx context.Context, principal model.Principal) (*model.WasteStatistics, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	return s.stats.WasteStatistics(ctx, principal.Scope(), statsWindow)
}

func (s *AnalyticsService) ClimateStatistics(ctx context.Context, principal model.Principal) (*model.ClimateStatistics, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	return s.stats.ClimateStatistics(ctx)
}

func (s *AnalyticsService) DashboardStats(ctx context.Context, principal model.Principal) (*model.DashboardStats, error) {
	if principal.IsDriver() {
		return nil, ErrPermissionDenied
	}
	return s.stats.DashboardStats(ctx, principal.Scope())
}
