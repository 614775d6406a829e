package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/config"
	"smartcity-service/internal/geo"
	"smartcity-service/internal/metrics"
	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
)

// DispatchStore is the persistence surface task assignment needs.
type DispatchStore interface {
	BinByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.WasteBin, error)
	TruckByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Truck, error)
	ActiveTaskForBin(ctx context.Context, binID uuid.UUID) (*model.WasteTask, error)
	IdleTrucksInZone(ctx context.Context, scope model.Scope, zone string) ([]model.Truck, error)
	CreateAssignedTask(ctx context.Context, task *model.WasteTask) error
}

const defaultTaskDurationMinutes = 30

// DispatchService assigns collection tasks to the nearest idle truck in the
// bin's service zone.
type DispatchService struct {
	store DispatchStore
	cfg   config.DispatchConfig
	log   zerolog.Logger
}

func NewDispatchService(store DispatchStore, cfg config.DispatchConfig, log zerolog.Logger) *DispatchService {
	return &DispatchService{store: store, cfg: cfg, log: log}
}

// AutoAssign creates an ASSIGNED task for the bin, picking the nearest idle
// truck in the bin's zone. If the bin already has a task in flight the call
// is idempotent and returns that task unchanged.
//
// The claim on the truck is optimistic: candidates are ranked from a
// snapshot, and a concurrent assignment that steals the chosen truck just
// moves on to the next candidate.
func (s *DispatchService) AutoAssign(ctx context.Context, scope model.Scope, binID uuid.UUID) (*model.AssignmentResult, error) {
	bin, err := s.store.BinByID(ctx, scope, binID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("bin %s: %w", binID, ErrNotFound)
		}
		return nil, err
	}

	if existing, err := s.store.ActiveTaskForBin(ctx, binID); err != nil {
		return nil, err
	} else if existing != nil {
		result := &model.AssignmentResult{Task: *existing, Existing: true}
		if existing.AssignedTruckID != nil {
			if truck, err := s.store.TruckByID(ctx, scope, *existing.AssignedTruckID); err == nil {
				result.DistanceKm = geo.DistanceKm(bin.Location, truck.Location)
			}
		}
		metrics.DispatchAssignments.WithLabelValues("duplicate").Inc()
		s.log.Info().
			Str("bin_id", binID.String()).
			Str("task_id", existing.ID.String()).
			Msg("bin already has an active task")
		return result, nil
	}

	trucks, err := s.store.IdleTrucksInZone(ctx, scope, bin.ServiceZone)
	if err != nil {
		return nil, err
	}
	if len(trucks) == 0 {
		metrics.DispatchAssignments.WithLabelValues("no_capacity").Inc()
		return nil, fmt.Errorf("zone %q: %w", bin.ServiceZone, ErrNoCapacity)
	}

	type candidate struct {
		truck    model.Truck
		distance float64
	}
	candidates := make([]candidate, 0, len(trucks))
	for _, truck := range trucks {
		candidates = append(candidates, candidate{
			truck:    truck,
			distance: geo.DistanceKm(bin.Location, truck.Location),
		})
	}
	// Truck ID breaks distance ties so concurrent callers rank identically.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].truck.ID.String() < candidates[j].truck.ID.String()
	})

	priority := model.PriorityMedium
	if bin.FillLevel > s.cfg.HighPriorityFillLevel {
		priority = model.PriorityHigh
	}

	for _, c := range candidates {
		now := time.Now()
		truckID := c.truck.ID
		task := &model.WasteTask{
			ID:                uuid.New(),
			WasteBinID:        bin.ID,
			AssignedTruckID:   &truckID,
			Status:            model.TaskAssigned,
			Priority:          priority,
			CreatedAt:         now,
			AssignedAt:        &now,
			EstimatedDuration: defaultTaskDurationMinutes,
		}
		err := s.store.CreateAssignedTask(ctx, task)
		if errors.Is(err, repository.ErrTruckConflict) {
			s.log.Debug().
				Str("truck_id", truckID.String()).
				Msg("truck claimed concurrently, trying next candidate")
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.DispatchAssignments.WithLabelValues("assigned").Inc()
		s.log.Info().
			Str("bin_id", bin.ID.String()).
			Str("truck_id", truckID.String()).
			Str("priority", string(priority)).
			Float64("distance_km", c.distance).
			Msg("task assigned")
		return &model.AssignmentResult{Task: *task, DistanceKm: c.distance}, nil
	}

	metrics.DispatchAssignments.WithLabelValues("no_capacity").Inc()
	return nil, fmt.Errorf("zone %q: all idle trucks claimed concurrently: %w", bin.ServiceZone, ErrNoCapacity)
}
