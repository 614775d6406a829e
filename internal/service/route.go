package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/config"
	"smartcity-service/internal/geo"
	"smartcity-service/internal/metrics"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

// RouteStore is the persistence surface route planning needs.
type RouteStore interface {
	TruckByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Truck, error)
	BinsByIDsInZone(ctx context.Context, ids []uuid.UUID, zone string) ([]model.WasteBin, error)
	SaveRoute(ctx context.Context, route *model.RouteOptimization) error
}

// RouteService builds collection routes with a greedy nearest-neighbour
// walk. Optimal ordering is NP-hard and the fleets here are small enough
// that greedy is within a few percent of exact.
type RouteService struct {
	store RouteStore
	cfg   config.RouteConfig
	log   zerolog.Logger
}

func NewRouteService(store RouteStore, cfg config.RouteConfig, log zerolog.Logger) *RouteService {
	return &RouteService{store: store, cfg: cfg, log: log}
}

// Optimize orders the requested bins for the truck, starting from the
// truck's current position and always moving to the closest unvisited bin.
// Bins outside the truck's service zone are silently dropped; the new plan
// supersedes any earlier active plan for the truck.
func (s *RouteService) Optimize(ctx context.Context, scope model.Scope, in model.OptimizeRouteInput) (*model.RouteOptimization, error) {
	if len(in.BinIDs) == 0 {
		return nil, fmt.Errorf("bin_ids is required: %w", ErrValidation)
	}

	truck, err := s.store.TruckByID(ctx, scope, in.TruckID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("truck %s: %w", in.TruckID, ErrNotFound)
		}
		return nil, err
	}

	bins, err := s.store.BinsByIDsInZone(ctx, in.BinIDs, truck.ServiceZone)
	if err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("zone %q: %w", truck.ServiceZone, ErrNoBins)
	}

	waypoints := make([]string, 0, len(bins))
	remaining := make([]model.WasteBin, len(bins))
	copy(remaining, bins)

	position := truck.Location
	totalKm := 0.0
	for len(remaining) > 0 {
		nearest := 0
		nearestKm := geo.DistanceKm(position, remaining[0].Location)
		for i := 1; i < len(remaining); i++ {
			if d := geo.DistanceKm(position, remaining[i].Location); d < nearestKm {
				nearest, nearestKm = i, d
			}
		}
		totalKm += nearestKm
		position = remaining[nearest].Location
		waypoints = append(waypoints, remaining[nearest].ID.String())
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	route := &model.RouteOptimization{
		ID:                   uuid.New(),
		TruckID:              truck.ID,
		Waypoints:            waypoints,
		TotalDistanceKm:      round2(totalKm),
		EstimatedTimeMinutes: int(math.Round(totalKm / s.cfg.AvgSpeedKmh * 60)),
		FuelEstimateLiters:   round2(totalKm * s.cfg.FuelPerKm),
		IsActive:             true,
		CreatedAt:            time.Now(),
	}
	if err := s.store.SaveRoute(ctx, route); err != nil {
		return nil, err
	}

	metrics.RoutesPlanned.Inc()
	s.log.Info().
		Str("truck_id", truck.ID.String()).
		Int("stops", len(waypoints)).
		Float64("total_km", route.TotalDistanceKm).
		Msg("route planned")
	return route, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
